// Package ranker measures how much of each playside image falls in the
// green and blue hue bands and ranks templates by those shares.
//
// Pixels are compared on the 8-bit HSV scale with hue in 0-179. Images that
// fail to decode score zero rather than aborting the run.
//
//	r := ranker.New("images", cfg.Rank, log)
//	res, err := r.Run(ctx)
package ranker
