// Package storage manages the image tree shared by the downloader, the
// ranker and the viewer.
//
// Images live at <root>/<id/100>/<id>_<side>.png. The Manager indexes
// existing files on creation so the downloader can skip them, and writes
// new files through a temporary file and rename.
//
//	manager, err := storage.NewManager("images")
//	key := storage.Key{PaintSeed: 305, Side: models.Playside}
//	if !manager.IsDownloaded(key) {
//	    err = manager.SaveImage(bytes.NewReader(data), key)
//	}
package storage
