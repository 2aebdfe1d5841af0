package config

import (
	"context"
	"os"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

// LoadSecrets merges SSM parameters under SSM_PARAMETER_PREFIX into the
// config map. Parameter names map to env-style keys: /atelier/prod/TWILIO_AUTH_TOKEN
// becomes TWILIO_AUTH_TOKEN. Values already present in the environment win,
// so local overrides keep working. A missing prefix means SSM is not in use.
func LoadSecrets(ctx context.Context, conf map[string]string) {
	prefix := GetString(conf, "SSM_PARAMETER_PREFIX", "")
	if prefix == "" {
		return
	}

	awsConf, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load AWS config for SSM, continuing without secrets")
		return
	}
	client := ssm.NewFromConfig(awsConf)

	withDecryption := true
	recursive := true
	input := &ssm.GetParametersByPathInput{
		Path:           &prefix,
		WithDecryption: &withDecryption,
		Recursive:      &recursive,
	}

	paginator := ssm.NewGetParametersByPathPaginator(client, input)
	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.Error().Err(err).Str("prefix", prefix).Msg("Failed to fetch SSM parameters")
			return
		}
		for _, param := range page.Parameters {
			if param.Name == nil || param.Value == nil {
				continue
			}
			name := *param.Name
			if idx := strings.LastIndex(name, "/"); idx >= 0 {
				name = name[idx+1:]
			}
			if _, exists := conf[name]; exists {
				continue
			}
			conf[name] = *param.Value
			loaded++
		}
	}
	log.Info().Int("count", loaded).Str("prefix", prefix).Msg("Loaded secrets from SSM")
}
