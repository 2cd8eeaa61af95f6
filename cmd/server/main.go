package main

import (
	"context"

	"github.com/Luismorlan/redditmux/app_setting"
	"github.com/Luismorlan/redditmux/reddit"
	"github.com/Luismorlan/redditmux/sentiment"
	"github.com/Luismorlan/redditmux/server"
	"github.com/Luismorlan/redditmux/server/middlewares"
	"github.com/Luismorlan/redditmux/sink"
	"github.com/Luismorlan/redditmux/store"
	. "github.com/Luismorlan/redditmux/utils"
	"github.com/Luismorlan/redditmux/utils/dotenv"
	. "github.com/Luismorlan/redditmux/utils/flag"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Metrics().Close()
	Log.Info("api server shutdown")
}

func serves(service string) bool {
	return *ServiceName == AllServices || *ServiceName == service
}

// buildServices wires the groups selected by -service. When storage runs in
// this process the other groups call it directly, otherwise they reach it at
// STORAGE_BASE_URL.
func buildServices(ctx context.Context, setting app_setting.ServerSetting) (server.Services, error) {
	svc := server.Services{Settings: setting}

	var storage sink.StorageClient
	if serves(StorageService) {
		db, err := GetDBConnection()
		if err != nil {
			return svc, err
		}
		svc.Store = store.NewPostStore(db)
		if err := svc.Store.Migrate(); err != nil {
			return svc, err
		}
		storage = sink.NewLocalClient(svc.Store)
	} else {
		storage = sink.NewHttpClient(sink.StorageBaseURLFromEnv())
	}

	if serves(RedditService) {
		tokens, err := reddit.NewTokenStore(ctx, setting.TOKEN_STORE)
		if err != nil {
			return svc, err
		}
		creds := reddit.NewCredentialProvider(ctx, reddit.ConfigFromEnv(), tokens, reddit.TokenFromEnv())
		client := reddit.NewClient(creds, creds.UserAgent(), reddit.DefaultAPIBaseURL)
		catalog := reddit.LoadCatalog(setting.SUBREDDITS_PATH)
		svc.OAuth = creds
		svc.Fetcher = reddit.NewFetcher(client, catalog, storage, setting.FETCH_PARALLELISM)
	}

	if serves(SentimentService) {
		svc.Sentiment = sentiment.NewService(storage, sentiment.NewVaderAnalyzer(), setting.SENTIMENT_BATCH_SIZE)
		svc.Storage = storage
	}
	return svc, nil
}

func main() {
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	ParseFlags()
	// Pick up the -service flag in every log line.
	InitLogger()

	if !*ByPassTracing {
		StartTracer()
		StartProfiler()
	}

	setting, err := app_setting.ParseServerSetting(*SettingsPath)
	if err != nil {
		Log.Fatal("fail to load settings: ", err)
	}
	if !*IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := buildServices(context.Background(), setting)
	if err != nil {
		Log.Fatal("fail to start services: ", err)
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(*ServiceName))
	router.Use(middlewares.RequestID())
	router.Use(middlewares.ErrorLogger())

	server.Register(router, svc)

	Log.Infof("api server starts up on %s serving %s", setting.LISTEN_ADDR, *ServiceName)
	if err := router.Run(setting.LISTEN_ADDR); err != nil {
		Log.Error("api server stopped: ", err)
	}
}
