package config

// Config 配置主体
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	DB          DBConfig          `mapstructure:"database"`
	Cassandra   CassandraConfig   `mapstructure:"cassandra"`
	Redis       RedisConfig       `mapstructure:"redis"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Retention   RetentionConfig   `mapstructure:"retention"`
	LinkPreview LinkPreviewConfig `mapstructure:"link_preview"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

// CassandraConfig Cassandra 集群配置
type CassandraConfig struct {
	Hosts       []string `mapstructure:"hosts"`
	Keyspace    string   `mapstructure:"keyspace"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	Consistency string   `mapstructure:"consistency"`
	Timeout     int      `mapstructure:"timeout"`
	NumConns    int      `mapstructure:"num_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MediaBucket      string `mapstructure:"media_bucket"`
	TempBucket       string `mapstructure:"temp_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	PresignExpiry    int    `mapstructure:"presign_expiry"`
}

// RetentionConfig 清理任务的保留窗口, 单位天
type RetentionConfig struct {
	DeletedNoteDays int `mapstructure:"deleted_note_days"`
	DraftDays       int `mapstructure:"draft_days"`
}

// LinkPreviewConfig 链接预览抓取配置
type LinkPreviewConfig struct {
	Timeout   int    `mapstructure:"timeout"`
	UserAgent string `mapstructure:"user_agent"`
	MaxBody   int64  `mapstructure:"max_body"`
}
