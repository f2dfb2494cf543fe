// Package logging provides structured logging for the extraction pipeline.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug) for per-commit decision detail
//   - Stdout and/or file output
//   - Automatic context field injection (run ID, repository)
//   - Credential redaction for remote URLs
//   - Optional sampling for very large runs
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithRepository(ctx, "go-git")
//	logger.Info(ctx, "repository processed", zap.Int("records", n))
//
// Output includes automatic correlation:
//
//	{
//	  "ts": "2026-08-23T10:15:30Z",
//	  "level": "info",
//	  "msg": "repository processed",
//	  "run.id": "9b2f...",
//	  "repo": "go-git",
//	  "records": 412
//	}
//
// # Credential Redaction
//
// Remote URLs can embed access tokens in their userinfo section. Redaction
// happens at two layers: the RemoteURL field helper scrubs URLs before they
// become fields, and the encoder drops values matching credential patterns
// as a backstop:
//
//	logger.Info(ctx, "remote discovered",
//	    logging.RemoteURL("fetch", remote.Fetch))
//
// # Sampling
//
// Sampling is off by default. The warn stream doubles as the record of
// skipped commits, and a batch run would rather pay the volume than lose
// entries. Enable for very large corpora:
//
//	cfg.Sampling.Enabled = true
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//	tl.AssertNoCredentials(t)
//
// # Concurrency Safety
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
