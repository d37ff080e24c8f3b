package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *GathererConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Providers.Timeout <= 0 {
		return errors.New("providers.timeout must be > 0")
	}
	if c.Providers.MaxRetries < 0 {
		return errors.New("providers.max_retries must be >= 0")
	}

	if c.Summary.RateSymbol == "" {
		return errors.New("summary.rate_symbol is required")
	}
	if c.Summary.PacingDelay < 0 {
		return errors.New("summary.pacing_delay must be >= 0")
	}

	if c.Collector.Schedule == "" {
		return errors.New("collector.schedule is required")
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}

	if c.Database.Enabled {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("kafka.brokers is required")
		}
		if c.Kafka.Topic == "" {
			return errors.New("kafka.topic is required")
		}
	}

	if c.Stream.Enabled {
		if c.Stream.URL == "" {
			return errors.New("stream.url is required")
		}
		if len(c.Stream.Symbols) == 0 {
			return errors.New("stream.symbols is required")
		}
		if c.Stream.ReconnectBaseDelay > c.Stream.ReconnectMaxDelay {
			return fmt.Errorf("stream.reconnect_base_delay (%v) cannot exceed reconnect_max_delay (%v)",
				c.Stream.ReconnectBaseDelay, c.Stream.ReconnectMaxDelay)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
