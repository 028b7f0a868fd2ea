// Command catalogcheck loads song catalogs and reports songs the player
// would fail to fetch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/applog"
	"github.com/llehouerou/aura/internal/catalog"
	"github.com/llehouerou/aura/internal/config"
	"github.com/llehouerou/aura/internal/player"
	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/source"
)

func main() {
	probe := flag.Bool("probe", false, "send a HEAD request for every song link")
	level := flag.String("log", "info", "log level")
	flag.Parse()

	log := applog.New(os.Stderr, *level)

	paths := flag.Args()
	if len(paths) == 0 {
		cfg, err := config.Load()
		if err != nil {
			log.WithError(err).Fatal("load config")
		}
		paths = cfg.Catalog.Paths
	}
	if len(paths) == 0 {
		log.Fatal("no catalog paths given and none configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cat, err := catalog.Loader{Logger: log}.Load(ctx, paths)
	if err != nil {
		log.WithError(err).Fatal("load catalog")
	}

	client := player.NewHTTPClient()
	var broken int
	for _, genre := range cat.Genres() {
		tracks := cat.Genre(genre)
		fmt.Printf("%s: %d songs\n", genre, len(tracks))
		for _, t := range tracks {
			if err := check(ctx, client, t, *probe); err != nil {
				broken++
				log.WithFields(logrus.Fields{
					"genre": genre,
					"title": t.Title,
					"link":  t.Link,
				}).WithError(err).Warn("unplayable song")
			}
		}
	}

	fmt.Printf("%d songs, %d unplayable\n", cat.Len(), broken)
	if broken > 0 {
		cancel()
		os.Exit(1)
	}
}

func check(ctx context.Context, client *http.Client, t playlist.Track, probe bool) error {
	if t.Link == "" {
		return errors.New("missing link")
	}
	link := source.Resolve(t.Link)
	if !probe {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("HEAD %s: %s", link, resp.Status)
	}
	return nil
}
