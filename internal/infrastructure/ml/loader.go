package ml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/service/sagemakerruntime/sagemakerruntimeiface"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/s3store"
)

// SageMakerScheme prefixes model sources hosted on SageMaker endpoints.
const SageMakerScheme = "sagemaker://"

// ObjectFetcher downloads objects from S3.
type ObjectFetcher interface {
	Fetch(ctx context.Context, loc s3store.Location) ([]byte, error)
}

// LoaderOptions carries what the model sources need.
type LoaderOptions struct {
	S3           ObjectFetcher
	SageMaker    sagemakerruntimeiface.SageMakerRuntimeAPI
	Logger       *slog.Logger
	FeatureOrder []string
	Classes      []int
}

// Load opens the classifier named by source: a file path, an s3:// URI or
// sagemaker://<endpoint>. An empty source returns a nil classifier.
func Load(ctx context.Context, source string, opts LoaderOptions) (port.Classifier, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case source == "":
		return nil, nil

	case strings.HasPrefix(source, SageMakerScheme):
		if opts.SageMaker == nil {
			return nil, fmt.Errorf("model %s: no sagemaker client configured", source)
		}
		clf, err := NewSageMakerClassifier(opts.SageMaker, strings.TrimPrefix(source, SageMakerScheme), opts.Classes)
		if err != nil {
			return nil, err
		}
		logger.Info("remote classifier configured", "endpoint", source, "classes", opts.Classes)
		return clf, nil

	case s3store.IsURI(source):
		if opts.S3 == nil {
			return nil, fmt.Errorf("model %s: no s3 client configured", source)
		}
		loc, err := s3store.ParseURI(source)
		if err != nil {
			return nil, err
		}
		data, err := opts.S3.Fetch(ctx, loc)
		if err != nil {
			return nil, err
		}
		return decodeAndLog(logger, source, data, opts.FeatureOrder)

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("reading model file: %w", err)
		}
		return decodeAndLog(logger, source, data, opts.FeatureOrder)
	}
}

func decodeAndLog(logger *slog.Logger, source string, data []byte, featureOrder []string) (port.Classifier, error) {
	clf, err := Decode(source, data, featureOrder)
	if err != nil {
		return nil, err
	}
	logger.Info("classifier loaded", "source", source)
	return clf, nil
}
