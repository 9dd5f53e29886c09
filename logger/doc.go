// Package logger provides structured logging for seqkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. The pipeline package
// logs chain realization at debug level, and Sequence.Log emits one debug
// event per element passing through a tapped stage.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipeline")
//	log.Debug("pipeline realized", logger.Fields("stages", 3))
package logger
