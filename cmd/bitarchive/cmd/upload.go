package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bitarchive "github.com/rachit9876/bitArchive"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file|url>...",
	Short: "Upload images to the archive",
	Long: "Uploads local files or remote URLs. Content is deduplicated by hash: " +
		"re-uploading identical bytes reports the image as already existing instead of storing a second copy.",
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	arc, done, err := openArchive()
	if err != nil {
		return err
	}
	defer done()

	var payloads []bitarchive.Payload
	for _, arg := range args {
		var p bitarchive.Payload
		var perr error
		if isURL(arg) {
			p, perr = bitarchive.PayloadFromURL(ctx, arg)
		} else {
			p, perr = bitarchive.PayloadFromFile(arg)
		}
		if perr != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %s\n", arg, bitarchive.ErrorMessage(perr))
			continue
		}
		payloads = append(payloads, p)
	}
	if len(payloads) == 0 {
		return fmt.Errorf("nothing to upload")
	}

	result, err := arc.UploadPayloads(ctx, payloads)
	if err != nil {
		return err
	}

	for _, rec := range result.Records {
		fmt.Printf("%s\t%d bytes\t%s\n", rec.Name, rec.Size, rec.URL)
	}
	for _, be := range result.Errors {
		fmt.Fprintf(os.Stderr, "failed: %s\n", bitarchive.ErrorMessage(be.Err))
	}
	if result.Existed > 0 {
		fmt.Printf("Uploaded %d, %d already existed.\n", result.Uploaded, result.Existed)
	} else {
		fmt.Printf("Uploaded %d.\n", result.Uploaded)
	}
	return nil
}

func isURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}
