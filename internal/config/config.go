package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidBoardSize      = errors.New("board must have at least 4 rows and 4 columns")
	ErrInvalidPiecesPerLevel = errors.New("pieces per level must be positive")
	ErrInvalidClearDelay     = errors.New("clear delay must not be negative")
)

const minBoardSide = 4

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ListenConfig struct {
	Addr string `yaml:"addr"`
}

type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

type GameConfig struct {
	PiecesPerLevel int           `yaml:"pieces_per_level"`
	ClearDelay     time.Duration `yaml:"clear_delay"`
	Seed           int64         `yaml:"seed"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type config struct {
	Debug       bool           `yaml:"debug"`
	Server      ListenConfig   `yaml:"server"`
	Board       BoardConfig    `yaml:"board"`
	Game        GameConfig     `yaml:"game"`
	Servers     []ServerConfig `yaml:"outer_servers"`
	PostgresURL string         `yaml:"postgres_url"`
	Kafka       KafkaConfig    `yaml:"kafka"`
}

func defaults() config {
	return config{
		Server: ListenConfig{Addr: ":8080"},
		Board: BoardConfig{
			Rows: domain.DefaultRows,
			Cols: domain.DefaultCols,
		},
		Game: GameConfig{
			PiecesPerLevel: domain.DefaultPiecesPerLevel,
		},
		Kafka: KafkaConfig{Topic: "game-events"},
	}
}

// New reads the YAML file at cfgPath, then applies environment overrides.
// Variables from a .env file next to the working directory are loaded first
// when the file exists.
func New(cfgPath string) (config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return config{}, errors.WithMessage(err, "load .env file")
	}
	file, err := os.Open(cfgPath)
	if err != nil {
		return config{}, errors.WithMessage(err, "open config file")
	}
	defer func() {
		_ = file.Close()
	}()
	cfg := defaults()
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return config{}, errors.WithMessage(err, "decode config file")
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c *config) applyEnv() {
	if v, ok := os.LookupEnv("SERVER_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv("POSTGRES_URL"); ok && v != "" {
		c.PostgresURL = v
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = c.Kafka.Brokers[:0]
		for _, broker := range strings.Split(v, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				c.Kafka.Brokers = append(c.Kafka.Brokers, broker)
			}
		}
	}
}

func (c config) validate() error {
	if c.Board.Rows < minBoardSide || c.Board.Cols < minBoardSide {
		return errors.WithMessagef(ErrInvalidBoardSize, "got %dx%d", c.Board.Rows, c.Board.Cols)
	}
	if c.Game.PiecesPerLevel < 1 {
		return ErrInvalidPiecesPerLevel
	}
	if c.Game.ClearDelay < 0 {
		return ErrInvalidClearDelay
	}
	return nil
}

func (c config) GameConfig() domain.GameConfig {
	return domain.GameConfig{
		Rows:           c.Board.Rows,
		Cols:           c.Board.Cols,
		PiecesPerLevel: c.Game.PiecesPerLevel,
		ClearDelay:     c.Game.ClearDelay,
	}
}
