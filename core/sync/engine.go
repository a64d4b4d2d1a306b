package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"admanager-sync/core/gam"

	"go.uber.org/zap"
)

// Engine runs value-set reconciliation against one targeting service.
// It holds no mutable state between calls; a single Engine is safe for
// sequential reuse.
type Engine struct {
	targeting gam.TargetingService
	logger    *zap.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(targeting gam.TargetingService, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{targeting: targeting, logger: logger}
}

// FetchValues retrieves the complete set of values assigned to a key,
// projected to the chosen attribute (AttributeName when attr is empty).
//
// Retrieval pages through the remote set with a fixed offset step until the
// number of received rows reaches the total the platform reports. A reported
// total of zero terminates immediately with an empty result.
func (e *Engine) FetchValues(ctx context.Context, keyID int64, attr Attribute, progress ProgressFunc) ([]string, error) {
	if attr == "" {
		attr = AttributeName
	}

	var results []string
	offset := 0
	received := 0
	total := 1

	for received < total {
		stmt := gam.KeyFilter(keyID)
		stmt.Offset = offset
		stmt.Limit = pageStep

		page, err := e.targeting.ListValues(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("listing values for key %d at offset %d: %w", keyID, offset, err)
		}

		total = page.TotalResultSetSize
		// An empty page with an unreached total would otherwise loop forever.
		if len(page.Values) == 0 {
			break
		}
		for _, value := range page.Values {
			results = append(results, projectValue(value, attr))
		}
		received = len(results)
		offset += pageStep

		if progress != nil && total > 0 {
			progress(received, total)
		}
	}

	return results, nil
}

// ValuesByName resolves a key by name and retrieves its complete value set.
func (e *Engine) ValuesByName(ctx context.Context, keyName string, attr Attribute) ([]string, error) {
	key, err := e.targeting.GetKeyByName(ctx, keyName)
	if err != nil {
		return nil, err
	}
	return e.FetchValues(ctx, key.ID, attr, nil)
}

// UploadValues reconciles the candidate values onto the named key: values
// already present remotely are never resubmitted, new ones are created in
// batches. See the package documentation for the failure policy.
//
// When the key does not exist and opts.CreateKey is false, the error wraps
// gam.ErrNotFound and nothing remote is mutated.
func (e *Engine) UploadValues(ctx context.Context, keyName string, candidates []string, opts UploadOptions) (*UploadResult, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	key, err := e.resolveKey(ctx, keyName, opts.CreateKey)
	if err != nil {
		return nil, err
	}

	existing, err := e.FetchValues(ctx, key.ID, AttributeName, opts.Progress)
	if err != nil {
		return nil, err
	}

	plan := BuildPlan(candidates, existing)
	chunks := ChunkValues(plan, batchSize)
	result := &UploadResult{Key: *key, Planned: len(plan)}

	e.logger.Info("planned value upload",
		zap.String("key", key.Name),
		zap.Int("candidates", len(candidates)),
		zap.Int("existing", len(existing)),
		zap.Int("new", len(plan)),
		zap.Int("chunks", len(chunks)),
	)

	for i, chunk := range chunks {
		values := make([]gam.Value, 0, len(chunk))
		for _, name := range chunk {
			values = append(values, gam.Value{KeyID: key.ID, Name: name})
		}

		if _, err := e.targeting.CreateValues(ctx, values); err != nil {
			if batchSize == 1 {
				// Retry-at-singleton-granularity convention: a rejected
				// single value is skipped, not fatal.
				e.logger.Warn("skipping rejected value",
					zap.String("key", key.Name),
					zap.String("value", chunk[0]),
					zap.Error(err),
				)
				result.Skipped = append(result.Skipped, chunk[0])
				continue
			}
			return result, fmt.Errorf("creating values chunk %d/%d for key %q: %w", i+1, len(chunks), key.Name, err)
		}
		result.Uploaded += len(chunk)

		if opts.Progress != nil {
			opts.Progress(i+1, len(chunks))
		}
	}

	e.logger.Info("uploaded new values",
		zap.String("key", key.Name),
		zap.Int("uploaded", result.Uploaded),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// DeactivateValues soft-removes the named values from the key. Requested
// names absent from the remote set are collected in the result's NotFound
// list rather than failing the run.
func (e *Engine) DeactivateValues(ctx context.Context, keyName string, names []string) (*DeactivateResult, error) {
	key, err := e.targeting.GetKeyByName(ctx, keyName)
	if err != nil {
		return nil, err
	}

	result := &DeactivateResult{Key: *key}
	if len(names) == 0 {
		return result, nil
	}

	found := make(map[string]struct{}, len(names))
	offset := 0
	received := 0
	total := 1

	for received < total {
		stmt := gam.Statement{
			Query:    fmt.Sprintf("customTargetingKeyId = :keyId AND name IN %s", gam.QuoteStringList(names)),
			IDParams: map[string]int64{"keyId": key.ID},
			Offset:   offset,
			Limit:    pageStep,
		}

		page, err := e.targeting.ListValues(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("listing values to deactivate for key %q: %w", key.Name, err)
		}

		total = page.TotalResultSetSize
		if len(page.Values) == 0 {
			break
		}

		ids := make([]int64, 0, len(page.Values))
		for _, value := range page.Values {
			ids = append(ids, value.ID)
			found[value.Name] = struct{}{}
		}
		received += len(page.Values)
		offset += pageStep

		action := gam.Statement{
			Query:    fmt.Sprintf("customTargetingKeyId = :keyId AND id IN %s", gam.QuoteIDList(ids)),
			IDParams: map[string]int64{"keyId": key.ID},
		}

		changed, err := e.targeting.DeactivateValues(ctx, action)
		if err != nil {
			return result, fmt.Errorf("deactivating values for key %q: %w", key.Name, err)
		}
		result.Deactivated += changed
	}

	missing := make(map[string]struct{})
	for _, name := range names {
		if _, ok := found[name]; ok {
			continue
		}
		if _, ok := missing[name]; ok {
			continue
		}
		missing[name] = struct{}{}
		result.NotFound = append(result.NotFound, name)
	}

	e.logger.Info("deactivated values",
		zap.String("key", key.Name),
		zap.Int("requested", len(names)),
		zap.Int("deactivated", result.Deactivated),
		zap.Int("not_found", len(result.NotFound)),
	)
	return result, nil
}

// resolveKey looks the key up by name, creating it when allowed.
func (e *Engine) resolveKey(ctx context.Context, keyName string, create bool) (*gam.Key, error) {
	key, err := e.targeting.GetKeyByName(ctx, keyName)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, gam.ErrNotFound) {
		return nil, err
	}
	if !create {
		return nil, err
	}

	key, err = e.targeting.CreateKey(ctx, keyName)
	if err != nil {
		return nil, fmt.Errorf("creating key %q: %w", keyName, err)
	}
	e.logger.Info("created targeting key", zap.String("key", key.Name), zap.Int64("id", key.ID))
	return key, nil
}

// projectValue extracts the requested attribute from a remote value.
func projectValue(value gam.Value, attr Attribute) string {
	if attr == AttributeID {
		return strconv.FormatInt(value.ID, 10)
	}
	return value.Name
}
