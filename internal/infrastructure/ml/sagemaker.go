package ml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemakerruntime"
	"github.com/aws/aws-sdk-go/service/sagemakerruntime/sagemakerruntimeiface"
)

const jsonContentType = "application/json"

type sageMakerRequest struct {
	Instances []sageMakerInstance `json:"instances"`
}

type sageMakerInstance struct {
	Features []float64 `json:"features"`
}

type sageMakerResponse struct {
	Predictions []struct {
		Probabilities []float64 `json:"probabilities"`
	} `json:"predictions"`
}

// SageMakerClassifier calls a model hosted on an Amazon SageMaker endpoint.
type SageMakerClassifier struct {
	client   sagemakerruntimeiface.SageMakerRuntimeAPI
	endpoint string
	classes  []int
}

// NewSageMakerClassifier creates a classifier for the given endpoint. The
// endpoint does not report its classes, so they come from configuration.
func NewSageMakerClassifier(client sagemakerruntimeiface.SageMakerRuntimeAPI, endpoint string, classes []int) (*SageMakerClassifier, error) {
	if endpoint == "" {
		return nil, errors.New("sagemaker endpoint name is required")
	}
	if len(classes) == 0 {
		return nil, errors.New("sagemaker classifier requires the model classes")
	}
	return &SageMakerClassifier{client: client, endpoint: endpoint, classes: slices.Clone(classes)}, nil
}

func (c *SageMakerClassifier) Name() string          { return SageMakerScheme + c.endpoint }
func (c *SageMakerClassifier) Classes() []int        { return slices.Clone(c.classes) }
func (c *SageMakerClassifier) ConcurrencySafe() bool { return true }

// PredictProba invokes the endpoint with a single instance.
func (c *SageMakerClassifier) PredictProba(ctx context.Context, features []float64) ([]float64, error) {
	body, err := json.Marshal(sageMakerRequest{Instances: []sageMakerInstance{{Features: features}}})
	if err != nil {
		return nil, fmt.Errorf("encoding sagemaker request: %w", err)
	}

	out, err := c.client.InvokeEndpointWithContext(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(c.endpoint),
		Body:         body,
		ContentType:  aws.String(jsonContentType),
		Accept:       aws.String(jsonContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("invoking endpoint %s: %w", c.endpoint, err)
	}

	var resp sageMakerResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("decoding sagemaker response: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return nil, errors.New("sagemaker response has no predictions")
	}
	return resp.Predictions[0].Probabilities, nil
}
