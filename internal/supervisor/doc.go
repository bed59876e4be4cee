// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package supervisor runs MovieMate's long-lived services under a suture v4
tree.

	moviemate
	├── data-layer
	│   └── TrainingService (startup model bootstrap, retrain schedule)
	├── messaging-layer
	│   ├── NATSServerService (when events.embedded_nats is set)
	│   ├── EventRouterService
	│   └── HubService
	└── api-layer
	    └── APIServerService

Crashed services restart with backoff inside their own layer. Canceling the
context passed to Serve stops everything, bounded by
TreeConfig.ShutdownTimeout per service.

Supervisor events go to slog through sutureslog. cmd/server passes
logging.NewSlogLogger() so they share the zerolog stream:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewTrainingService(engine, trainCfg, logging.Logger()))
	tree.AddAPIService(services.NewAPIServerService(srv, services.APIServerConfig{}, logging.Logger()))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

The service wrappers live in the services subpackage.
*/
package supervisor
