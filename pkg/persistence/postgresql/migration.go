package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create presets table
			CREATE TABLE presets (
				id UUID PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL,
				user_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				data JSONB NOT NULL DEFAULT '{}',
				ts BIGINT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				UNIQUE (workflow_id, user_id, name)
			);

			CREATE INDEX idx_presets_namespace ON presets(workflow_id, user_id);
		`,
		2: `
			-- Migration 2: recency lookups for the preset picker
			CREATE INDEX idx_presets_ts ON presets(workflow_id, user_id, ts DESC);
		`,
	}
}
