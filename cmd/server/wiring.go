package main

import (
	"context"
	"fmt"

	"github.com/m2tx/city_agent/assets"
	"github.com/m2tx/city_agent/internal/agent"
	"github.com/m2tx/city_agent/internal/citytime"
	"github.com/m2tx/city_agent/internal/config"
	"github.com/m2tx/city_agent/internal/functions"
	"github.com/m2tx/city_agent/internal/geocode"
	"github.com/m2tx/city_agent/internal/repository"
	"github.com/m2tx/city_agent/internal/tzindex"
	"github.com/m2tx/city_agent/internal/weather"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/genai"
)

type pingFunc func(ctx context.Context) error

// buildAgent wires the model client, the session store and both tools.
// The returned cleanup releases the store connection.
func buildAgent(ctx context.Context, cfg *config.Config) (*agent.Agent, pingFunc, func(), error) {
	client, err := genai.NewClient(ctx, genaiConfig(cfg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("genai client: %w", err)
	}

	repo, ping, cleanup, err := buildRepository(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	a, err := buildTools(cfg, client, repo)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	return a, ping, cleanup, nil
}

func genaiConfig(cfg *config.Config) *genai.ClientConfig {
	if cfg.UseVertexAI {
		return &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.CloudProject,
			Location: cfg.CloudLocation,
		}
	}
	return &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}
}

func buildRepository(ctx context.Context, cfg *config.Config) (repository.SessionRepository, pingFunc, func(), error) {
	noPing := func(context.Context) error { return nil }

	if cfg.SessionStore == "memory" {
		logrus.Info("using in-memory session store")
		return repository.NewMemorySessionRepository(), noPing, func() {}, nil
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("mongodb connect: %w", err)
	}
	cleanup := func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logrus.Warnf("mongodb disconnect: %v", err)
		}
	}

	repo := repository.NewMongoSessionRepository(mongoClient.Database(cfg.MongoDB), repository.DefaultCollection)
	if err := repo.EnsureTTL(ctx, cfg.SessionTTL); err != nil {
		logrus.Warnf("session ttl: %v", err)
	}

	return repo, repo.Ping, cleanup, nil
}

// buildTools loads the timezone index and registers both tools on a new agent.
// client and repo may be nil when the agent is only used for direct calls.
func buildTools(cfg *config.Config, client *genai.Client, repo repository.SessionRepository) (*agent.Agent, error) {
	finder, err := tzindex.NewFinder()
	if err != nil {
		return nil, err
	}

	a := agent.NewWithRepo(client, cfg.Model, assets.SystemInstruction, repo)
	if err := registerTools(a, cfg, finder); err != nil {
		return nil, err
	}
	return a, nil
}

func registerTools(a *agent.Agent, cfg *config.Config, index tzindex.Index) error {
	weatherService := weather.NewService(cfg.OpenWeatherAPIKey, weather.WithBaseURL(cfg.OpenWeatherBaseURL))

	geocoder := geocode.NewNominatim(
		geocode.WithBaseURL(cfg.NominatimBaseURL),
		geocode.WithUserAgent(cfg.NominatimUserAgent),
	)
	timeService := citytime.NewService(geocoder, index)

	for _, fd := range []*agent.FunctionDeclaration{
		functions.CreateWeatherFunctionDeclaration(weatherService),
		functions.CreateTimeFunctionDeclaration(timeService),
	} {
		if err := a.AddFunctionCall(fd); err != nil {
			return fmt.Errorf("register %s: %w", fd.Name, err)
		}
	}

	return nil
}
