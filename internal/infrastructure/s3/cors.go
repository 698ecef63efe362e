package s3infra

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// CORSRule is the bucket CORS rule browsers need for direct PUT uploads.
type CORSRule struct {
	AllowedOrigins []string `json:"allowedOrigins"`
	AllowedMethods []string `json:"allowedMethods"`
	AllowedHeaders []string `json:"allowedHeaders"`
	ExposeHeaders  []string `json:"exposeHeaders"`
	MaxAgeSeconds  int32    `json:"maxAgeSeconds"`
}

// UploadCORSRule returns the rule applied by setup-cors for the given origins.
func UploadCORSRule(origins []string) CORSRule {
	return CORSRule{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "PUT", "POST", "DELETE", "HEAD"},
		AllowedHeaders: []string{"*"},
		ExposeHeaders:  []string{"ETag", "x-amz-meta-custom-header"},
		MaxAgeSeconds:  3000,
	}
}

// ApplyCORS replaces the bucket CORS configuration with rules.
func (s *Store) ApplyCORS(ctx context.Context, rules ...CORSRule) error {
	if err := s.ensureEnabled(); err != nil {
		return err
	}
	out := make([]types.CORSRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, types.CORSRule{
			AllowedOrigins: r.AllowedOrigins,
			AllowedMethods: r.AllowedMethods,
			AllowedHeaders: r.AllowedHeaders,
			ExposeHeaders:  r.ExposeHeaders,
			MaxAgeSeconds:  aws.Int32(r.MaxAgeSeconds),
		})
	}
	_, err := s.client.PutBucketCors(ctx, &s3.PutBucketCorsInput{
		Bucket:            aws.String(s.bucket),
		CORSConfiguration: &types.CORSConfiguration{CORSRules: out},
	})
	if err != nil {
		return fmt.Errorf("s3 put bucket cors: %w", err)
	}
	return nil
}

// CORS returns the bucket's current CORS rules.
func (s *Store) CORS(ctx context.Context) ([]CORSRule, error) {
	if err := s.ensureEnabled(); err != nil {
		return nil, err
	}
	res, err := s.client.GetBucketCors(ctx, &s3.GetBucketCorsInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return nil, fmt.Errorf("s3 get bucket cors: %w", err)
	}
	rules := make([]CORSRule, 0, len(res.CORSRules))
	for _, r := range res.CORSRules {
		rules = append(rules, CORSRule{
			AllowedOrigins: r.AllowedOrigins,
			AllowedMethods: r.AllowedMethods,
			AllowedHeaders: r.AllowedHeaders,
			ExposeHeaders:  r.ExposeHeaders,
			MaxAgeSeconds:  aws.ToInt32(r.MaxAgeSeconds),
		})
	}
	return rules, nil
}
