package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/aitools/internal/logging"
)

// ImportTools parses, validates and publishes a bulk import payload.
//
// A returned error means nothing was imported: *FormatError for structurally
// invalid input, ErrTooManyImports when no slot frees up, or *ImportError
// wrapping anything unexpected. A result with Failed > 0 is a partial success.
func (s *Service) ImportTools(ctx context.Context, data []byte, format Format) (ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	importID := s.newID()
	logger := logging.WithFields(ctx, "import_id", importID, "format", format)
	start := time.Now()

	result, candidates, err := safeParse(CleanPayload(data), format)
	if err != nil {
		logger.Warn("import rejected", "error", err)
		s.audit.Record(ctx, AuditLogParams{
			Action:   ActionImportFail,
			TargetID: importID,
			Detail:   err.Error(),
		})
		return ImportResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return ImportResult{}, &ImportError{Err: err}
	}

	result.ImportID = importID
	result.Added = s.publish(ctx, toolsFromCandidates(candidates, importID, s.now().UTC())...)

	logger.Info("import completed",
		"total", result.Total,
		"success", result.Success,
		"failed", result.Failed,
		"added", result.Added,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.audit.Record(ctx, AuditLogParams{
		Action:       ActionImport,
		TargetID:     importID,
		Detail:       fmt.Sprintf("%d of %d rows valid", result.Success, result.Total),
		RowsAffected: result.Added,
	})
	if result.Added > 0 {
		s.invalidate(ctx, CacheKeyCatalog)
	}

	return result, nil
}

// PreviewImport parses and validates a payload without publishing anything.
func (s *Service) PreviewImport(ctx context.Context, data []byte, format Format) (ImportPreview, error) {
	result, candidates, err := safeParse(CleanPayload(data), format)
	if err != nil {
		return ImportPreview{}, err
	}
	if candidates == nil {
		candidates = []Candidate{}
	}
	return ImportPreview{Result: result, Candidates: candidates}, nil
}

// safeParse runs ParseImport, passing *FormatError through and wrapping any
// other failure, including a panic, in *ImportError.
func safeParse(data string, format Format) (result ImportResult, candidates []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, candidates = ImportResult{}, nil
			err = &ImportError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, candidates, err = ParseImport(data, format)
	if err != nil {
		var ferr *FormatError
		if errors.As(err, &ferr) {
			return ImportResult{}, nil, ferr
		}
		return ImportResult{}, nil, &ImportError{Err: err}
	}
	return result, candidates, nil
}

func toolsFromCandidates(candidates []Candidate, importID string, addedAt time.Time) []Tool {
	tools := make([]Tool, 0, len(candidates))
	for _, c := range candidates {
		tools = append(tools, Tool{
			Name:        c.Name,
			Description: c.Description,
			Category:    canonicalCategory(c.Category),
			URL:         c.URL,
			LogoURL:     c.LogoURL,
			Tags:        SplitTags(c.Tags),
			Source:      "import:" + importID,
			AddedAt:     addedAt,
		})
	}
	return tools
}

// canonicalCategory maps known categories to their label and keeps
// anything else as written; imports do not restrict the category set.
func canonicalCategory(s string) string {
	if cat, ok := LookupCategory(s); ok {
		return cat.Label
	}
	return s
}
