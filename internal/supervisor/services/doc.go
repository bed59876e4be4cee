// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package services provides suture.Service wrappers for MovieMate components.

Each wrapper turns a component lifecycle (ListenAndServe, Run, a ticker)
into suture's context-aware Serve and names itself through fmt.Stringer so
supervisor events identify it.

# Available Services

  - APIServerService: the REST API with graceful shutdown
  - HubService: the websocket fan-out hub
  - TrainingService: startup model bootstrap and the retrain schedule
  - EventRouterService: the watermill router for domain events
  - NATSServerService: the embedded NATS server, when enabled

# Usage

	tree.AddDataService(services.NewTrainingService(engine, services.TrainingServiceConfig{
	    Interval: cfg.Training.Interval,
	    Timeout:  cfg.Training.Timeout,
	}, logging.Logger()))
	tree.AddMessagingService(services.NewHubService(hub, logging.Logger()))
	tree.AddAPIService(services.NewAPIServerService(srv, services.APIServerConfig{
	    Addr: cfg.Server.Addr(),
	}, logging.Logger()))
*/
package services
