package main

import (
	"context"
	"os"
	"time"

	"github.com/Luismorlan/redditmux/app_setting"
	"github.com/Luismorlan/redditmux/reddit"
	"github.com/Luismorlan/redditmux/sink"
	"github.com/Luismorlan/redditmux/store"
	. "github.com/Luismorlan/redditmux/utils"
	"github.com/Luismorlan/redditmux/utils/dotenv"
	. "github.com/Luismorlan/redditmux/utils/flag"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/sirupsen/logrus"
)

// A fetch-all run never takes longer than this.
const runTimeout = 10 * time.Minute

func cleanup() {
	CloseTracer()
	Metrics().Close()
	Log.Info("fetcher shutdown")
}

// storageClient writes straight to the database unless STORAGE_BASE_URL
// points at a running storage service.
func storageClient() (sink.StorageClient, error) {
	if os.Getenv("STORAGE_BASE_URL") != "" {
		return sink.NewHttpClient(sink.StorageBaseURLFromEnv()), nil
	}
	db, err := GetDBConnection()
	if err != nil {
		return nil, err
	}
	s := store.NewPostStore(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return sink.NewLocalClient(s), nil
}

func run(ctx context.Context) error {
	setting, err := app_setting.ParseServerSetting(*SettingsPath)
	if err != nil {
		return err
	}
	storage, err := storageClient()
	if err != nil {
		return err
	}
	tokens, err := reddit.NewTokenStore(ctx, setting.TOKEN_STORE)
	if err != nil {
		return err
	}

	creds := reddit.NewCredentialProvider(ctx, reddit.ConfigFromEnv(), tokens, reddit.TokenFromEnv())
	client := reddit.NewClient(creds, creds.UserAgent(), reddit.DefaultAPIBaseURL)
	catalog := reddit.LoadCatalog(setting.SUBREDDITS_PATH)
	fetcher := reddit.NewFetcher(client, catalog, storage, setting.FETCH_PARALLELISM)

	start := time.Now()
	_, outcome := fetcher.FetchAll(ctx)
	if outcome.Err != nil {
		return outcome.Err
	}
	Log.WithFields(logrus.Fields{
		"subreddits": catalog.Size(),
		"stored":     outcome.Count,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("fetch-all finished")
	return nil
}

func main() {
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	ParseFlags()
	*ServiceName = FetcherJob
	InitLogger()

	if !*ByPassTracing {
		StartTracer()
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if err := run(ctx); err != nil {
		Log.Error("fetch-all failed: ", err)
		cleanup()
		os.Exit(1)
	}
}
