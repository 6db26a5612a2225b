package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/repository"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// NoForecastData is used when neither storage nor the provider has data for a region
const NoForecastData = "No forecast data."

// RecommendationsOutput represents farming advice for a region
type RecommendationsOutput struct {
	Region          string `json:"region"`
	Forecast        string `json:"forecast"`
	Recommendations string `json:"recommendations"`
}

// ClimateUsecase defines the interface for weather-driven advice
type ClimateUsecase interface {
	Forecast(ctx context.Context, region string) (json.RawMessage, error)
	Recommendations(ctx context.Context, region string) (*RecommendationsOutput, error)
}

type climateUsecase struct {
	climateRepo repository.ClimateRepository
	weather     service.WeatherProvider
	advisor     service.Advisor
	maxTokens   int
	logger      *zap.Logger
}

// NewClimateUsecase creates a new climate usecase
func NewClimateUsecase(
	climateRepo repository.ClimateRepository,
	weather service.WeatherProvider,
	advisor service.Advisor,
	maxTokens int,
	logger *zap.Logger,
) ClimateUsecase {
	return &climateUsecase{
		climateRepo: climateRepo,
		weather:     weather,
		advisor:     advisor,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

func (u *climateUsecase) Forecast(ctx context.Context, region string) (json.RawMessage, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, ErrInvalidRequest
	}

	var data json.RawMessage
	if u.weather.Configured() {
		current, err := u.weather.Current(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		data = current
	} else {
		mock, err := json.Marshal(map[string]string{
			"region":   region,
			"forecast": "No OpenWeather API key; mock sunny data",
		})
		if err != nil {
			return nil, err
		}
		data = mock
	}

	if err := u.climateRepo.Create(ctx, entity.NewClimateRecord(region, string(data))); err != nil {
		return nil, err
	}
	return data, nil
}

func (u *climateUsecase) Recommendations(ctx context.Context, region string) (*RecommendationsOutput, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, ErrInvalidRequest
	}

	forecast, err := u.forecastText(ctx, region)
	if err != nil {
		return nil, err
	}

	return &RecommendationsOutput{
		Region:          region,
		Forecast:        forecast,
		Recommendations: u.advisor.GenerateText(ctx, recommendationsPrompt(region, forecast), u.maxTokens),
	}, nil
}

func (u *climateUsecase) forecastText(ctx context.Context, region string) (string, error) {
	latest, err := u.climateRepo.Latest(ctx, region)
	if err != nil {
		return "", err
	}
	if latest != nil {
		return latest.ForecastJSON, nil
	}

	if !u.weather.Configured() {
		return NoForecastData, nil
	}
	data, err := u.weather.Current(ctx, region)
	if err != nil {
		u.logger.Warn("weather lookup failed", zap.String("region", region), zap.Error(err))
		return NoForecastData, nil
	}
	summary, ok := summarizeWeather(data)
	if !ok {
		return NoForecastData, nil
	}

	if err := u.climateRepo.Create(ctx, entity.NewClimateRecord(region, summary)); err != nil {
		u.logger.Warn("failed to cache forecast summary", zap.String("region", region), zap.Error(err))
	}
	return summary, nil
}

type weatherPayload struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// summarizeWeather condenses an OpenWeather current-conditions payload
func summarizeWeather(data json.RawMessage) (string, bool) {
	var p weatherPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", false
	}
	if p.Main.Temp == nil || p.Main.Humidity == nil || len(p.Weather) == 0 {
		return "", false
	}
	return fmt.Sprintf("Temperature: %v°C, Humidity: %v%%, Condition: %s",
		*p.Main.Temp, *p.Main.Humidity, p.Weather[0].Description), true
}
