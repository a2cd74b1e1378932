package main

import (
	"flag"

	logger "github.com/zerok-ai/zk-utils-go/logs"

	"github.com/zerok-ai/zk-otlp-verifier/config"
	"github.com/zerok-ai/zk-otlp-verifier/handler"
	"github.com/zerok-ai/zk-otlp-verifier/server"
	"github.com/zerok-ai/zk-otlp-verifier/stores/badger"
	"github.com/zerok-ai/zk-otlp-verifier/stores/redis"
)

var LOG_TAG = "main"

func main() {
	configPath := flag.String("c", "", "config file path")
	flag.Parse()

	var otlpConfig *config.OtlpConfig
	var err error
	if *configPath != "" {
		otlpConfig, err = config.CreateConfig(*configPath)
		if err != nil {
			logger.Fatal(LOG_TAG, "Error while reading config file: ", err)
			return
		}
	} else {
		otlpConfig = config.DefaultConfig()
	}

	var verdictStore handler.VerdictStore
	if otlpConfig.Redis.Host != "" {
		verdictRedisHandler, err := redis.NewVerdictRedisHandler(otlpConfig)
		if err != nil {
			logger.Fatal(LOG_TAG, "Error while creating verdict redis handler: ", err)
			return
		}
		verdictStore = verdictRedisHandler
	}

	var payloadBadgerHandler *badger.PayloadBadgerHandler
	if otlpConfig.Badger.Path != "" {
		payloadBadgerHandler, err = badger.NewPayloadBadgerHandler(otlpConfig)
		if err != nil {
			logger.Fatal(LOG_TAG, "Error while creating payload badger handler: ", err)
			return
		}
	}

	verifyHandler := handler.NewVerifyHandler(otlpConfig, verdictStore, payloadBadgerHandler)

	go func() {
		if err := server.RunGrpcServer(otlpConfig, verifyHandler); err != nil {
			logger.Error(LOG_TAG, "Error running the grpc server: ", err)
		}
	}()

	httpServer := server.NewHTTPServer()
	httpServer.ConfigureRoutes(verifyHandler)
	err = httpServer.Run(*otlpConfig)
	if err != nil {
		logger.Error(LOG_TAG, "Error starting the server: ", err)
	}
}
