package viewer

import (
	"fmt"
	"os"

	"gammascope/pkg/config"
	"gammascope/pkg/logger"
	"gammascope/pkg/ranker"
	"gammascope/pkg/storage"
	"gammascope/pkg/store"
)

// Load opens the cache, ranking, favorites and image index named by cfg.
// Only a cache that cannot be read is an error; the rest fall back to empty.
func Load(cfg *config.Config, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "viewer")

	if _, err := os.Stat(cfg.Fetch.CacheFile); err != nil {
		return nil, fmt.Errorf("cannot load cache file %s: %w", cfg.Fetch.CacheFile, err)
	}
	cache, err := store.NewCacheStore(cfg.Fetch.CacheFile, log).Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load cache file %s: %w", cfg.Fetch.CacheFile, err)
	}

	ranks, err := ranker.ReadCSV(cfg.Rank.OutputFile)
	if err != nil {
		log.WithError(err).Warn("Ignoring unreadable ranking file")
		ranks = map[string]ranker.Row{}
	}

	favorites, err := store.LoadFavorites(cfg.Viewer.FavoritesFile)
	if err != nil {
		log.WithError(err).Warn("Ignoring unreadable favorites file")
	}

	images, err := storage.LoadIndex(cfg.Download.ImageDir)
	if err != nil {
		log.WithError(err).Warn("Ignoring unreadable image directory")
		images = storage.Index{}
	}

	s := NewSession(cache.Items(), ranks, favorites, images)
	mode, err := ParseMode(cfg.Viewer.StartMode)
	if err != nil {
		return nil, err
	}
	s.SetMode(mode)

	log.InfoWithFields("Viewer loaded", map[string]interface{}{
		"items":     s.Len(),
		"ranked":    len(ranks),
		"favorites": s.FavoriteCount(),
		"images":    len(images),
	})
	return s, nil
}
