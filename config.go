package main

const ENV_X_COOKIES = "x_cookies"
const ENV_PROXY_DSN = "proxy_dsn"
const ENV_PROXY_CLAUDE_DSN = "proxy_claude_dsn"
const ENV_OUTPUT_DIR = "output_dir"
const ENV_TOKEN_CACHE_DIR = "token_cache_dir"
const ENV_ARCHIVE_DATABASE_PATH = "archive_database_path"
const ENV_FETCH_LOG_RETENTION_DAYS = "fetch_log_retention_days"
const ENV_CLAUDE_API_KEY = "claude_api_key"
const ENV_TELEGRAM_API_KEY = "telegram_api_key"
const ENV_TELEGRAM_ADMIN_CHAT_ID = "tg_admin_chat_id"

// Defaults applied in ProvideConfig when the environment leaves them empty.
const DEFAULT_OUTPUT_DIR = "output"
const DEFAULT_ARCHIVE_DATABASE_PATH = "xtract.db"
const DEFAULT_FETCH_LOG_RETENTION_DAYS = 30

// Artifact names inside one post output directory.
const POST_DIR_PREFIX = "x_post_"
const RAW_RESPONSE_FILENAME = "raw_response.json"
const POST_JSON_FILENAME = "tweet.json"
const POST_MARKDOWN_PREFIX = "tweet_"

// Fetch log outcome values.
const FETCH_OUTCOME_OK = "ok"
const FETCH_OUTCOME_ERROR = "error"
