// Package storage saves downloaded HD photos.
//
// Photos are stored flat in the output directory as <id>.jpg, with the id
// reduced to [a-zA-Z0-9_-]. Writes go through a temporary file and a rename.
// Existing files are scanned on start so IsDownloaded survives restarts.
//
//	manager, err := storage.NewManager(cfg.Download.OutputDir)
//	if err != nil {
//		return err
//	}
//	if !manager.IsDownloaded(photo.ID) {
//		path, size, err := manager.SavePhoto(bytes.NewReader(data), photo.ID)
//		...
//	}
package storage
