package server

import (
	"net/http"
	"os"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/zerok-ai/zk-utils-go/logs"

	"github.com/zerok-ai/zk-otlp-verifier/config"
	"github.com/zerok-ai/zk-otlp-verifier/handler"
	promMetrics "github.com/zerok-ai/zk-otlp-verifier/metrics"
)

var httpServerLogTag = "httpServer"
var podIp = os.Getenv("POD_IP")

type HTTPServer struct {
	app *iris.Application
}

func NewHTTPServer() *HTTPServer {
	return &HTTPServer{
		app: newApp(),
	}
}

func (s *HTTPServer) ConfigureRoutes(verifyHandler *handler.VerifyHandler) {
	s.app.Get("/metrics", iris.FromStd(promhttp.Handler()))
	s.app.Get("/healthz", func(ctx iris.Context) {
		ctx.StatusCode(iris.StatusOK)
	})
	s.app.Post("/v1/traces", verifyHandler.ServeHTTP)
	configureVerdictFetchAPI(s.app, verifyHandler)
	configurePayloadFetchAPI(s.app, verifyHandler)
}

func (s *HTTPServer) Run(otlpConfig config.OtlpConfig) error {
	srv := &http.Server{
		Addr:         ":" + otlpConfig.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	irisConfig := iris.WithConfiguration(iris.Configuration{
		DisablePathCorrection: true,
		LogLevel:              otlpConfig.Logs.Level,
	})

	return s.app.Run(iris.Server(srv), irisConfig)
}

func newApp() *iris.Application {
	app := iris.Default()

	crs := func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Credentials", "true")

		if ctx.Method() == iris.MethodOptions {
			ctx.Header("Access-Control-Methods", "POST")
			ctx.Header("Access-Control-Allow-Headers",
				"Access-Control-Allow-Origin,Content-Type")
			ctx.Header("Access-Control-Max-Age", "86400")
			ctx.StatusCode(iris.StatusNoContent)
			return
		}

		ctx.Next()
	}
	app.UseRouter(crs)
	app.AllowMethods(iris.MethodOptions)

	return app
}

func configureVerdictFetchAPI(app *iris.Application, verifyHandler *handler.VerifyHandler) {
	app.Post("/get-verdicts", func(ctx iris.Context) {
		promMetrics.TotalVerdictFetchRequests.WithLabelValues(podIp).Inc()

		var traceIdList []string
		if err := ctx.ReadJSON(&traceIdList); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			if err := ctx.JSON(iris.Map{"error": "Invalid JSON input"}); err != nil {
				logger.Error(httpServerLogTag, "Invalid request format for verdict fetch ", err)
			}
			return
		}

		verdicts := verifyHandler.GetVerdicts(traceIdList)
		ctx.StatusCode(iris.StatusOK)
		if err := ctx.JSON(verdicts); err != nil {
			logger.Error(httpServerLogTag, "Unable to write verdicts for trace id list ", traceIdList, " error ", err)
		}
	}).Describe("Verdict Fetch API")
}

func configurePayloadFetchAPI(app *iris.Application, verifyHandler *handler.VerifyHandler) {
	app.Post("/get-trace-data", func(ctx iris.Context) {
		var prefixList []string
		if err := ctx.ReadJSON(&prefixList); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			if err := ctx.JSON(iris.Map{"error": "Invalid JSON input"}); err != nil {
				logger.Error(httpServerLogTag, "Invalid request format for payload fetch ", err)
			}
			return
		}

		payloads, err := verifyHandler.GetBulkPayloadsForPrefix(prefixList)
		if err != nil {
			logger.Error(httpServerLogTag, "Unable to fetch payloads for prefix list ", prefixList, " error ", err)
			ctx.StatusCode(iris.StatusInternalServerError)
			return
		}
		ctx.StatusCode(iris.StatusOK)
		if err := ctx.JSON(payloads); err != nil {
			logger.Error(httpServerLogTag, "Unable to write payloads for prefix list ", prefixList, " error ", err)
		}
	}).Describe("Raw Payload Fetch API")
}
