package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/medassist-api/api"
	"github.com/bitmark-inc/medassist-api/assist"
	"github.com/bitmark-inc/medassist-api/external/openai"
	"github.com/bitmark-inc/medassist-api/external/openweather"
	"github.com/bitmark-inc/medassist-api/external/places"
	"github.com/bitmark-inc/medassist-api/geo"
	"github.com/bitmark-inc/medassist-api/report"
	"github.com/bitmark-inc/medassist-api/triage"
	"github.com/bitmark-inc/medassist-api/tts"
)

var server *api.Server

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// Config from .env if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Println("Cannot load .env:", err)
	}

	viper.SetDefault("server.port", "8000")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("openai.model.chat", "gpt-4o-mini")
	viper.SetDefault("openai.model.tts", "tts-1")
	viper.SetDefault("openai.temperature", 0.2)
	viper.SetDefault("places.radius", 5000)
	viper.SetDefault("places.max_results", 5)
	viper.SetDefault("upstream.timeout", 10*time.Second)
	viper.SetDefault("triage.escalation", string(triage.EscalationStrict))
	viper.SetDefault("geo.reverse_geocode", false)
	viper.SetDefault("i18n.default", "en")

	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("medassist")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Conventional names of the upstream settings
	bindings := map[string]string{
		"openai.apikey":            "OPENAI_API_KEY",
		"openai.model.chat":        "OPENAI_MODEL_CHAT",
		"google.apikey":            "GOOGLE_MAPS_API_KEY",
		"openweather.apikey":       "OPENWEATHER_API_KEY",
		"location.default_city":    "DEFAULT_CITY",
		"location.default_country": "DEFAULT_COUNTRY",
		"server.allowed_origins":   "ALLOWED_ORIGINS",
		"server.port":              "PORT",
	}
	for key, env := range bindings {
		prefixedEnv := "MEDASSIST_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		if err := viper.BindEnv(key, prefixedEnv, env); err != nil {
			fmt.Println("Cannot bind env", env, err)
		}
	}
}

// allowedOrigins accepts both a yaml list and a comma separated value.
func allowedOrigins() []string {
	var origins []string
	for _, o := range viper.GetStringSlice("server.allowed_origins") {
		origins = append(origins, strings.Split(o, ",")...)
	}
	return origins
}

func main() {
	var configFile string

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	if err := report.LoadLocales(viper.GetString("i18n.dir")); err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded i18n bundle")

	escalation, err := triage.ParseEscalationMode(viper.GetString("triage.escalation"))
	if err != nil {
		log.Panic(err)
	}

	timeout := viper.GetDuration("upstream.timeout")

	// External services. Credentials are checked on first use.
	openaiClient := openai.New(openai.Config{
		APIKey:      viper.GetString("openai.apikey"),
		BaseURL:     viper.GetString("openai.url"),
		ChatModel:   viper.GetString("openai.model.chat"),
		SpeechModel: viper.GetString("openai.model.tts"),
		Temperature: float32(viper.GetFloat64("openai.temperature")),
	})
	placesClient := places.New(places.Config{
		APIKey:     viper.GetString("google.apikey"),
		BaseURL:    viper.GetString("google.url"),
		Radius:     viper.GetUint("places.radius"),
		MaxResults: viper.GetInt("places.max_results"),
		Timeout:    timeout,
	})
	weatherClient := openweather.New(
		viper.GetString("openweather.apikey"),
		viper.GetString("openweather.url"),
		timeout,
	)

	for name, ok := range map[string]bool{
		openai.APIKeySetting:      openaiClient.Configured(),
		places.APIKeySetting:      placesClient.Configured(),
		openweather.APIKeySetting: weatherClient.Configured(),
	} {
		if !ok {
			log.WithField("prefix", "init").Warnf("%s not set, dependent operations will fail", name)
		}
	}

	var resolvers []geo.LocationResolver
	if viper.GetBool("geo.reverse_geocode") {
		resolvers = append(resolvers, geo.NewGeocodingLocationResolver(placesClient))
	}
	resolvers = append(resolvers, geo.NewDefaultLocationResolver(
		viper.GetString("location.default_city"),
		viper.GetString("location.default_country"),
	))

	assistant := assist.New(
		triage.NewLLMClassifier(openaiClient, escalation),
		placesClient,
		weatherClient,
		geo.NewMultipleLocationResolver(resolvers...),
	)

	renderer, err := report.NewRenderer(viper.GetString("i18n.default"))
	if err != nil {
		log.Panic(err)
	}

	// Init http server
	server = api.NewServer(
		assistant,
		tts.NewSynthesizer(openaiClient),
		renderer,
		api.Options{
			AllowedOrigins: allowedOrigins(),
			Version:        viper.GetString("server.version"),
			Information: map[string]interface{}{
				"chat_model":      openaiClient.ChatModel(),
				"escalation":      escalation,
				"reverse_geocode": viper.GetBool("geo.reverse_geocode"),
				"openai":          openaiClient.Configured(),
				"google_maps":     placesClient.Configured(),
				"openweather":     weatherClient.Configured(),
			},
		})
	log.WithField("prefix", "init").Info("Initialized http server")

	if err := server.Run(":" + viper.GetString("server.port")); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
