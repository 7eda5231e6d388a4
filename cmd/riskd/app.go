package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sagemakerruntime"
	"github.com/aws/aws-sdk-go/service/sagemakerruntime/sagemakerruntimeiface"

	"github.com/varshiniml7/predictive-maintenance/internal/application/usecase"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/baseline"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/config"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/messaging"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/metrics"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/ml"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/postgres"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/s3store"
	grpcpresentation "github.com/varshiniml7/predictive-maintenance/internal/presentation/grpc"
	"github.com/varshiniml7/predictive-maintenance/internal/presentation/rest"
	"github.com/varshiniml7/predictive-maintenance/pkg/kafka"
	"github.com/varshiniml7/predictive-maintenance/pkg/observability"
	pgutil "github.com/varshiniml7/predictive-maintenance/pkg/postgres"
)

const serviceName = "riskd"

// app holds the collaborators built once at startup. Everything it holds is
// immutable after newApp returns.
type app struct {
	router     http.Handler
	grpcServer *grpcpresentation.Server
	adapter    *service.ClassifierAdapter
	logger     *slog.Logger
	closers    []closer
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (a *app, err error) {
	a = &app{logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	// Tracing is optional; failures only disable it.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		Enabled:      cfg.Tracing.Enabled,
		Insecure:     !cfg.IsProduction(),
		SampleRatio:  1.0,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		a.closers = append(a.closers, closer{name: "tracer", fn: shutdownTracer})
	}

	obsMetrics, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		return a, fmt.Errorf("initializing metrics: %w", err)
	}
	a.closers = append(a.closers, closer{name: "meter provider", fn: obsMetrics.Provider.Shutdown})

	recorder, err := metrics.NewRecorder(obsMetrics.Registry)
	if err != nil {
		return a, fmt.Errorf("registering assessment metrics: %w", err)
	}

	clients := newAWSClients(cfg.Model.AWSRegion)

	// Baseline: fatal when it cannot be loaded.
	src, err := a.baselineSource(ctx, cfg, clients)
	if err != nil {
		return a, err
	}
	table, err := baseline.Load(ctx, src, cfg.Features, logger)
	if err != nil {
		return a, err
	}

	// Classifier: optional, scoring degrades to the baseline curve without it.
	clf, err := ml.Load(ctx, cfg.Model.Source, ml.LoaderOptions{
		S3:           clients.s3Fetcher,
		SageMaker:    clients.sageMaker,
		Logger:       logger,
		FeatureOrder: table.Features(),
		Classes:      cfg.Model.Classes,
	})
	if err != nil {
		logger.Warn("classifier unavailable, scoring without it", "source", cfg.Model.Source, "error", err)
		clf = nil
	}
	a.adapter = service.NewClassifierAdapter(clf, service.AdapterConfig{
		FeatureOrder:  table.Features(),
		PositiveClass: cfg.Model.PositiveClass,
	}, logger)
	recorder.SetClassifierActive(a.adapter.Active())

	scorer, err := service.NewRiskScorer(cfg.ScoringParams())
	if err != nil {
		return a, err
	}
	params := scorer.Params()
	logger.Info("risk scorer ready",
		"z_threshold", params.ZThreshold,
		"steepness", params.Steepness,
		"midpoint", params.Midpoint,
		"classifier_weight", params.ClassifierWeight,
	)

	publisher, err := a.eventPublisher(cfg)
	if err != nil {
		return a, err
	}

	assessRecord := usecase.NewAssessRecord(scorer, table, a.adapter, publisher, recorder, logger)
	getBaseline := usecase.NewGetBaseline(table)

	a.router = rest.NewRouter(rest.RouterConfig{
		Prediction:     rest.NewPredictionHandler(assessRecord, getBaseline, logger),
		Health:         rest.NewHealthHandler(table, a.adapter, logger),
		Metrics:        obsMetrics.Handler,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	a.grpcServer, err = grpcpresentation.NewServer(
		grpcpresentation.NewRiskServiceHandler(assessRecord, getBaseline, logger),
		grpcpresentation.ServerConfig{
			Address:     cfg.GRPCAddress(),
			TLSCertFile: cfg.GRPC.TLSCertFile,
			TLSKeyFile:  cfg.GRPC.TLSKeyFile,
			Reflection:  cfg.GRPC.Reflection,
		},
		logger,
	)
	if err != nil {
		return a, err
	}

	logBaseline(logger, table)
	return a, nil
}

// baselineSource picks the statistics source from the configured location.
func (a *app) baselineSource(ctx context.Context, cfg *config.Config, clients awsClients) (port.BaselineSource, error) {
	uri := cfg.BaselineSource

	switch {
	case baseline.IsPostgresURI(uri):
		if err := pgutil.RunMigrations(uri, cfg.MigrationsDir); err != nil {
			return nil, &baseline.ConfigurationError{Source: "postgres", Err: err}
		}
		pool, err := pgutil.Connect(ctx, uri, pgutil.PoolOptions{MaxConns: 4})
		if err != nil {
			return nil, &baseline.ConfigurationError{Source: "postgres", Err: err}
		}
		a.closers = append(a.closers, closer{name: "postgres pool", fn: func(context.Context) error {
			pool.Close()
			return nil
		}})
		return postgres.NewBaselineRepository(pool), nil

	case s3store.IsURI(uri):
		src, err := baseline.NewS3Source(clients.s3Fetcher, uri)
		if err != nil {
			return nil, &baseline.ConfigurationError{Source: uri, Err: err}
		}
		return src, nil

	default:
		return baseline.NewFileSource(uri), nil
	}
}

// eventPublisher publishes to Kafka when brokers are configured and to the
// log otherwise.
func (a *app) eventPublisher(cfg *config.Config) (port.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		a.logger.Info("no kafka brokers configured, abnormal assessments are logged only")
		return messaging.NewLogPublisher(a.logger), nil
	}

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}
	a.closers = append(a.closers, closer{name: "kafka producer", fn: func(context.Context) error {
		return producer.Close()
	}})

	a.logger.Info("publishing abnormal assessments to kafka",
		"brokers", strings.Join(cfg.Kafka.Brokers, ","),
		"topic", cfg.Kafka.Topic,
	)
	return messaging.NewKafkaPublisher(producer, cfg.Kafka.Topic, a.logger), nil
}

func (a *app) close() {
	closeAll(a.logger, a.closers)
	a.closers = nil
}

// awsClients share one session between S3 and SageMaker. Creating a session
// does not touch the network.
type awsClients struct {
	s3Fetcher ml.ObjectFetcher
	sageMaker sagemakerruntimeiface.SageMakerRuntimeAPI
}

func newAWSClients(region string) awsClients {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return awsClients{}
	}
	return awsClients{
		s3Fetcher: s3store.NewFetcher(s3.New(sess)),
		sageMaker: sagemakerruntime.New(sess),
	}
}

func logBaseline(logger *slog.Logger, table *model.BaselineTable) {
	for _, f := range table.Features() {
		s, _ := table.Stats(f)
		logger.Debug("feature baseline", "feature", f, "mean", s.Mean, "std", s.Std, "min", s.Min, "max", s.Max)
	}
}
