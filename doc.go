// Package bitarchive implements a private photo archive backed by a GitHub
// repository's contents API, used as a flat content-addressed blob store.
//
// Images are named by a hex prefix of the SHA-256 of their raw bytes, so
// uploading identical bytes twice never creates two remote blobs: the
// remote's refusal to overwrite an existing path without a version token is
// interpreted as "already exists" and resolved by materializing a local
// copy instead. Listings are mirrored into a local disk cache with bounded
// concurrency, keyed by the remote version token so a changed blob
// invalidates its stale cache entry.
//
// Basic usage:
//
//	cfg := bitarchive.Config{Token: token, Repo: "user/Bit-Archive-imgs", Branch: "main"}
//	arc, _ := bitarchive.Open(cfg)
//	defer arc.Close()
//
//	// Mirror the remote gallery into the local cache
//	records, _ := arc.RefreshImages(ctx)
//
//	// Upload (deduplicated by content)
//	res, _ := arc.UploadPayloads(ctx, []bitarchive.Payload{{Data: raw, Extension: "jpg"}})
//	fmt.Println(res.Uploaded, "uploaded,", res.Existed, "already existed")
//
//	// Serve a record from disk
//	path, _ := arc.EnsureLocalPath(ctx, records[0])
package bitarchive
