// Package logger builds slog loggers whose handler injects request-scoped
// attributes (tenant id, organization id, request id) from context at log
// time, so call sites never thread routing identifiers into log calls by
// hand.
//
//	log := logger.New(
//		logger.WithService("tenantgate"),
//		logger.WithFormat(logger.FormatJSON),
//		logger.WithContextExtractors(
//			store.LoggerExtractor(),
//			store.OrgLoggerExtractor(),
//			requestid.LoggerExtractor(),
//		),
//	)
package logger
