// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Queue        QueueConfig             `mapstructure:"queue"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Server       ServerConfig            `mapstructure:"server"`
	Logging      LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// QueueConfig holds settings for the fulfillment request queue.
type QueueConfig struct {
	RequestsQueueURL   string `mapstructure:"requests_queue_url"`
	DeadLetterQueueURL string `mapstructure:"dead_letter_queue_url"`
	Region             string `mapstructure:"region"`
	BatchSize          int    `mapstructure:"batch_size"`
	VisibilityTimeout  int    `mapstructure:"visibility_timeout"` // seconds
	MaxReceiveCount    int    `mapstructure:"max_receive_count"`  // 0 disables dead-lettering
	PollInterval       int    `mapstructure:"poll_interval"`      // milliseconds
}

type DatabaseConfig struct {
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
	DynamoDB      DynamoDBConfig      `mapstructure:"dynamodb"`
}

type ElasticsearchConfig struct {
	Addresses        []string `mapstructure:"addresses"`
	Username         string   `mapstructure:"username"`
	Password         string   `mapstructure:"password"`
	RestaurantsIndex string   `mapstructure:"restaurants_index"`
	URL              string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds, restaurant detail cache
}

type DynamoDBConfig struct {
	Region           string `mapstructure:"region"`
	RestaurantsTable string `mapstructure:"restaurants_table"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Timeout    int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries int  `mapstructure:"max_retries"` // For error handling
}

// IntegrationConfig holds settings for AWS-side integrations.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
			Subject   string `mapstructure:"subject"`
		} `mapstructure:"ses"`
	} `mapstructure:"aws"`
}

// ServerConfig holds listen addresses for the bot webhook and metrics endpoints.
type ServerConfig struct {
	Address        string `mapstructure:"address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	SlotRegistry   string `mapstructure:"slot_registry"` // optional JSON override
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
