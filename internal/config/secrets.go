package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

// SecretFetcher returns the string value stored under a secret name
type SecretFetcher func(ctx context.Context, secretName string) (string, error)

// NewSecretFetcher returns a SecretFetcher backed by AWS Secrets Manager
func NewSecretFetcher(region string) (SecretFetcher, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create AWS session: %w", err)
	}

	client := secretsmanager.New(sess)
	return func(ctx context.Context, secretName string) (string, error) {
		return getSecretValue(ctx, client, secretName)
	}, nil
}

func getSecretValue(ctx context.Context, client secretsmanageriface.SecretsManagerAPI, secretName string) (string, error) {
	result, err := client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to retrieve secret: %w", err)
	}

	if result.SecretString == nil {
		return "", fmt.Errorf("secret is stored as binary, expected string")
	}

	return *result.SecretString, nil
}

// ResolveTollAPIKey fills cfg.Toll.APIKey from Secrets Manager when it is not
// set in the environment. A missing key is not an error: the toll
// integration simply stays disabled.
func ResolveTollAPIKey(ctx context.Context, cfg *Config, fetch SecretFetcher) error {
	if cfg.Toll.APIKey != "" || cfg.Toll.SecretName == "" || fetch == nil {
		return nil
	}

	raw, err := fetch(ctx, cfg.Toll.SecretName)
	if err != nil {
		return fmt.Errorf("failed to get toll API key: %w", err)
	}

	cfg.Toll.APIKey = extractAPIKey(raw)
	return nil
}

// extractAPIKey accepts either a plain string secret or a JSON object with
// an api_key / apiKey field.
func extractAPIKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return raw
	}

	secret, err := ParseJSONSecret(raw)
	if err != nil {
		return ""
	}
	for _, key := range []string{"api_key", "apiKey", "TOLL_API_KEY"} {
		if v, ok := secret[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// ParseJSONSecret parses a JSON secret into a map
func ParseJSONSecret(secretString string) (map[string]interface{}, error) {
	var secretMap map[string]interface{}
	if err := json.Unmarshal([]byte(secretString), &secretMap); err != nil {
		return nil, fmt.Errorf("failed to parse JSON secret: %w", err)
	}
	return secretMap, nil
}
