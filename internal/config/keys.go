package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Get renders a single key for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_path":
		return c.DataPath, nil
	case "http_addr":
		return c.HTTPAddr, nil
	case "log_mode":
		return c.LogMode, nil
	case "chart_dir":
		return c.ChartDir, nil
	case "prediction_enabled":
		return strconv.FormatBool(c.PredictionEnabled), nil
	case "model_eager_fit":
		return strconv.FormatBool(c.ModelEagerFit), nil
	case "model_learning_rate":
		return strconv.FormatFloat(c.ModelLearningRate, 'g', -1, 64), nil
	case "model_epochs":
		return strconv.Itoa(c.ModelEpochs), nil
	case "model_c":
		return strconv.FormatFloat(c.ModelC, 'g', -1, 64), nil
	case "age_bins":
		return strconv.Itoa(c.AgeBins), nil
	case "fare_bins":
		return strconv.Itoa(c.FareBins), nil
	case "cors_origins":
		return strings.Join(c.CORSOrigins, ","), nil
	case "shutdown_timeout_sec":
		return strconv.Itoa(c.ShutdownTimeoutSec), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val into the named key and validates the result.
func (c *Global) Set(key, val string) error {
	val = strings.TrimSpace(val)
	switch key {
	case "data_path":
		c.DataPath = val
	case "http_addr":
		c.HTTPAddr = val
	case "log_mode":
		switch strings.ToLower(val) {
		case "dev", "development":
			c.LogMode = "dev"
		case "prod", "production":
			c.LogMode = "prod"
		default:
			return fmt.Errorf("invalid log_mode: %s (use dev or prod)", val)
		}
	case "chart_dir":
		c.ChartDir = val
	case "prediction_enabled", "model_eager_fit":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		if key == "prediction_enabled" {
			c.PredictionEnabled = b
		} else {
			c.ModelEagerFit = b
		}
	case "model_learning_rate", "model_c":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		if key == "model_c" {
			c.ModelC = f
		} else {
			c.ModelLearningRate = f
		}
	case "model_epochs", "age_bins", "fare_bins", "shutdown_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		switch key {
		case "model_epochs":
			c.ModelEpochs = i
		case "age_bins":
			c.AgeBins = i
		case "fare_bins":
			c.FareBins = i
		default:
			c.ShutdownTimeoutSec = i
		}
	case "cors_origins":
		c.CORSOrigins = splitList(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return c.Validate()
}
