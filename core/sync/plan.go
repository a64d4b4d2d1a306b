package sync

// BuildPlan computes the values that must be created remotely: every
// candidate not present in existing, compared by exact case-sensitive
// equality. The plan is a set — duplicate candidates collapse to a single
// entry — and preserves the candidates' first-occurrence order.
func BuildPlan(candidates, existing []string) []string {
	present := make(map[string]struct{}, len(existing))
	for _, value := range existing {
		present[value] = struct{}{}
	}

	plan := make([]string, 0)
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if _, ok := present[candidate]; ok {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		plan = append(plan, candidate)
	}
	return plan
}

// ChunkValues partitions values into consecutive chunks of at most size
// entries. The last chunk may be shorter; an empty input yields zero chunks.
// Concatenating the chunks reproduces the input order.
func ChunkValues(values []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}

	chunks := make([][]string, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
