package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 9000
cassandra:
  hosts:
    - 10.0.0.1:9042
  keyspace: courier
redis:
  addr: 127.0.0.1:6379
kafka_provider_consumer:
  enable: true
  topic: service-provider-verified
  group_id: courier
jwt:
  secret: from-file
  issuer: Courier
`

func writeConfig(t *testing.T, content string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, sampleConfig)

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"10.0.0.1:9042"}, cfg.Cassandra.Hosts)
	assert.Equal(t, "courier", cfg.Cassandra.Keyspace)
	assert.True(t, cfg.KafkaProviderConsumer.Enable)
	assert.Equal(t, "service-provider-verified", cfg.KafkaProviderConsumer.Topic)
	assert.Equal(t, "from-file", cfg.JWT.Secret)

	// 文件中未出现的项使用默认值
	assert.Equal(t, "LOCAL_QUORUM", cfg.Cassandra.Consistency)
	assert.Equal(t, 2000, cfg.Cassandra.Timeout)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, 30, cfg.Kafka.Consumer.MaxProcessingTime)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	t.Setenv("COURIER_JWT_SECRET", "from-env")
	t.Setenv("COURIER_CASSANDRA_KEYSPACE", "courier_test")

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "courier_test", cfg.Cassandra.Keyspace)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), t.TempDir())
	assert.Error(t, err)
}
