package postgres

// SQL queries for the webhook event ledger

const ledgerColumns = `
			id, event_key, source, topic, raw_payload, received_headers,
			processed, attempt_count, last_error,
			first_seen_at, last_seen_at, expires_at`

const (
	// queryObserveEvent records one sighting of an event key.
	// First sight inserts attempt_count=1; later sights bump the counter.
	// GREATEST keeps last_seen_at monotonic under clock skew between replicas.
	// RETURNING gives the post-write state so the caller can tell new from repeat.
	queryObserveEvent = `
		INSERT INTO webhook_events (
			id, event_key, source, topic,
			processed, attempt_count,
			first_seen_at, last_seen_at, expires_at
		)
		VALUES ($1, $2, $3, $4, FALSE, 1, $5, $5, $6)
		ON CONFLICT (event_key) DO UPDATE SET
			attempt_count = webhook_events.attempt_count + 1,
			last_seen_at  = GREATEST(webhook_events.last_seen_at, EXCLUDED.last_seen_at)
		RETURNING attempt_count, processed, last_error, first_seen_at
	`

	// queryUpsertEvent writes a processing outcome.
	// attempt_count, first_seen_at and last_seen_at are left alone on conflict.
	// NULL payload/headers keep whatever an earlier attempt stored.
	queryUpsertEvent = `
		INSERT INTO webhook_events (
			id, event_key, source, topic, raw_payload, received_headers,
			processed, attempt_count, last_error,
			first_seen_at, last_seen_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $9, $10)
		ON CONFLICT (event_key) DO UPDATE SET
			processed        = EXCLUDED.processed,
			last_error       = EXCLUDED.last_error,
			raw_payload      = COALESCE(EXCLUDED.raw_payload, webhook_events.raw_payload),
			received_headers = COALESCE(EXCLUDED.received_headers, webhook_events.received_headers),
			expires_at       = GREATEST(EXCLUDED.expires_at, webhook_events.first_seen_at)
	`

	queryFindEvent = `
		SELECT` + ledgerColumns + `
		FROM webhook_events
		WHERE event_key = $1
	`

	// queryDeleteExpired is the plain sweep (no archive).
	queryDeleteExpired = `
		DELETE FROM webhook_events
		WHERE expires_at < $1
	`

	// queryListExpired pages through expired rows for archiving.
	queryListExpired = `
		SELECT` + ledgerColumns + `
		FROM webhook_events
		WHERE expires_at < $1
		ORDER BY expires_at ASC, event_key ASC
		LIMIT $2
	`

	// queryDeleteKeys deletes archived rows.
	// The expiry guard skips rows re-marked between list and delete.
	queryDeleteKeys = `
		DELETE FROM webhook_events
		WHERE event_key = ANY($1)
		  AND expires_at < $2
	`

	// queryListActivity returns the newest records for one source.
	// Empty $2 matches all topics.
	queryListActivity = `
		SELECT` + ledgerColumns + `
		FROM webhook_events
		WHERE source = $1
		  AND ($2 = '' OR topic = $2)
		ORDER BY last_seen_at DESC, event_key ASC
		LIMIT $3
	`

	// queryStatsTotals counts totals for one source. NULL $2 means all time.
	queryStatsTotals = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE attempt_count > 1),
			COUNT(*) FILTER (WHERE NOT processed AND COALESCE(last_error, '') <> '')
		FROM webhook_events
		WHERE source = $1
		  AND ($2::timestamptz IS NULL OR first_seen_at >= $2)
	`

	queryStatsByTopic = `
		SELECT topic, COUNT(*)
		FROM webhook_events
		WHERE source = $1
		  AND ($2::timestamptz IS NULL OR first_seen_at >= $2)
		GROUP BY topic
		ORDER BY topic ASC
	`
)
