package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 250 * time.Millisecond
	MAX_BACKOFF     = 4 * time.Second
	USER_AGENT      = "reviewcloud-client/1.0 (+https://github.com/spacesedan/reviewcloud)"

	LLM_REQUEST_TIMEOUT  = 90 * time.Second
	DEFAULT_GEMINI_MODEL = "gemini-2.0-flash"
	DEFAULT_OPENAI_MODEL = "gpt-4o-mini"

	// VALKEY_RETRY_WAIT is the pause between failed cache commands.
	VALKEY_RETRY_WAIT = 250 * time.Millisecond

	PROVIDER_GEMINI = "gemini"
	PROVIDER_OPENAI = "openai"
)
