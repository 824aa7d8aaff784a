package config

// Config 配置主体
type Config struct {
	Server                Server                `mapstructure:"server"`
	Cassandra             CassandraConfig       `mapstructure:"cassandra"`
	Redis                 RedisConfig           `mapstructure:"redis"`
	Mongo                 MongoConfig           `mapstructure:"mongo"`
	Kafka                 KafkaConfig           `mapstructure:"kafka"`
	KafkaProviderConsumer KafkaProviderConsumer `mapstructure:"kafka_provider_consumer"`
	Logstash              LogstashConfig        `mapstructure:"logstash"`
	JWT                   JWTConfig             `mapstructure:"jwt"`
}

// Server Server配置
type Server struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CassandraConfig 宽列存储配置
type CassandraConfig struct {
	Hosts          []string `mapstructure:"hosts"`
	Keyspace       string   `mapstructure:"keyspace"`
	Username       string   `mapstructure:"username"`
	Password       string   `mapstructure:"password"`
	Consistency    string   `mapstructure:"consistency"`
	Timeout        int      `mapstructure:"timeout"`         // 毫秒
	ConnectTimeout int      `mapstructure:"connect_timeout"` // 毫秒
	NumConns       int      `mapstructure:"num_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaProviderConsumer 服务商审核通过事件消费者
type KafkaProviderConsumer struct {
	Enable  bool   `mapstructure:"enable"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}
