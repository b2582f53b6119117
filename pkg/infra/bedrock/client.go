package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=bedrock_client_mock.go --case=underscore --with-expecter
type Client interface {
	ApplyGuardrail(
		ctx context.Context,
		params *bedrockruntime.ApplyGuardrailInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ApplyGuardrailOutput, error)
}

const defaultSessionName = "TrustModBedrockSession"

// Config selects static credentials when AccessKey is set and the default AWS chain otherwise.
// With RoleARN the base credentials are only used to assume that role.
type Config struct {
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
	RoleARN      string `mapstructure:"role_arn"`
	SessionName  string `mapstructure:"session_name"`
}

type client struct {
	client *bedrockruntime.Client
}

func NewClient(ctx context.Context, logger *logrus.Logger, cfg Config) (Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.AccessKey,
					SecretAccessKey: cfg.SecretKey,
					SessionToken:    cfg.SessionToken,
				}, nil
			},
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.WithError(err).Error("failed to load AWS config")
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.RoleARN != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(assumeRoleProvider(sts.NewFromConfig(awsCfg), cfg))
		logger.WithField("role_arn", cfg.RoleARN).Info("bedrock client assumes role")
	}
	return &client{client: bedrockruntime.NewFromConfig(awsCfg)}, nil
}

type roleAssumer interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

func assumeRoleProvider(stsClient roleAssumer, cfg Config) aws.CredentialsProviderFunc {
	sessionName := cfg.SessionName
	if sessionName == "" {
		sessionName = defaultSessionName
	}
	return func(ctx context.Context) (aws.Credentials, error) {
		out, err := stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
			RoleArn:         aws.String(cfg.RoleARN),
			RoleSessionName: aws.String(sessionName),
		})
		if err != nil {
			return aws.Credentials{}, fmt.Errorf("failed to assume role: %w", err)
		}
		if out.Credentials == nil {
			return aws.Credentials{}, fmt.Errorf("assume role returned no credentials")
		}
		creds := aws.Credentials{
			AccessKeyID:     aws.ToString(out.Credentials.AccessKeyId),
			SecretAccessKey: aws.ToString(out.Credentials.SecretAccessKey),
			SessionToken:    aws.ToString(out.Credentials.SessionToken),
			Source:          "AssumeRole",
		}
		if out.Credentials.Expiration != nil {
			creds.CanExpire = true
			creds.Expires = *out.Credentials.Expiration
		}
		return creds, nil
	}
}

func (c *client) ApplyGuardrail(
	ctx context.Context,
	params *bedrockruntime.ApplyGuardrailInput,
	optFns ...func(*bedrockruntime.Options),
) (*bedrockruntime.ApplyGuardrailOutput, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}
	return c.client.ApplyGuardrail(ctx, params, optFns...)
}
