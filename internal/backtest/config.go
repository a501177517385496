package backtest

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a single crossover backtest.
type Config struct {
	Symbol                 string                     `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Instrument symbol used to label results"`
	ShortPeriod            int                        `yaml:"short_period" json:"short_period" jsonschema:"title=Short Period,description=Window of the fast moving average,minimum=1" validate:"required,min=1"`
	LongPeriod             int                        `yaml:"long_period" json:"long_period" jsonschema:"title=Long Period,description=Window of the slow moving average,minimum=1" validate:"required,min=1"`
	MAKind                 types.MAKind               `yaml:"ma_kind" json:"ma_kind" jsonschema:"title=Moving Average,description=Kind of moving average for both lines" validate:"required,oneof=sma ema"`
	EMAMode                types.EMAMode              `yaml:"ema_mode" json:"ema_mode" jsonschema:"title=EMA Mode,description=Weighting of the exponential moving average. Required when ma_kind is ema" validate:"omitempty,oneof=adjusted unadjusted"`
	UseRSIFilter           bool                       `yaml:"use_rsi_filter" json:"use_rsi_filter" jsonschema:"title=RSI Filter,description=Only enter while the RSI is below the threshold"`
	RSIPeriod              int                        `yaml:"rsi_period" json:"rsi_period" jsonschema:"title=RSI Period,description=Lookback of the RSI,minimum=1" validate:"min=1"`
	RSIThreshold           float64                    `yaml:"rsi_threshold" json:"rsi_threshold" jsonschema:"title=RSI Threshold,description=Entries are allowed while the RSI is below this level,exclusiveMinimum=0,maximum=100" validate:"gt=0,lte=100"`
	InitialCapital         float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital of the equity log,exclusiveMinimum=0" validate:"gt=0"`
	CloseOpenPositionAtEnd bool                       `yaml:"close_open_position_at_end" json:"close_open_position_at_end" jsonschema:"title=Close Open Position,description=Realise a position still open on the last bar at its price"`
	StartTime              optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the backtest period"`
	EndTime                optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the backtest period"`
}

// UnmarshalYAML decodes over the receiver's current values, so fields absent from the
// document keep their defaults.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type configFile struct {
		Symbol                 string        `yaml:"symbol"`
		ShortPeriod            int           `yaml:"short_period"`
		LongPeriod             int           `yaml:"long_period"`
		MAKind                 types.MAKind  `yaml:"ma_kind"`
		EMAMode                types.EMAMode `yaml:"ema_mode"`
		UseRSIFilter           bool          `yaml:"use_rsi_filter"`
		RSIPeriod              int           `yaml:"rsi_period"`
		RSIThreshold           float64       `yaml:"rsi_threshold"`
		InitialCapital         float64       `yaml:"initial_capital"`
		CloseOpenPositionAtEnd bool          `yaml:"close_open_position_at_end"`
		StartTime              *time.Time    `yaml:"start_time"`
		EndTime                *time.Time    `yaml:"end_time"`
	}

	file := configFile{
		Symbol:                 c.Symbol,
		ShortPeriod:            c.ShortPeriod,
		LongPeriod:             c.LongPeriod,
		MAKind:                 c.MAKind,
		EMAMode:                c.EMAMode,
		UseRSIFilter:           c.UseRSIFilter,
		RSIPeriod:              c.RSIPeriod,
		RSIThreshold:           c.RSIThreshold,
		InitialCapital:         c.InitialCapital,
		CloseOpenPositionAtEnd: c.CloseOpenPositionAtEnd,
		StartTime:              nil,
		EndTime:                nil,
	}

	if err := unmarshal(&file); err != nil {
		return err
	}

	c.Symbol = file.Symbol
	c.ShortPeriod = file.ShortPeriod
	c.LongPeriod = file.LongPeriod
	c.MAKind = file.MAKind
	c.EMAMode = file.EMAMode
	c.UseRSIFilter = file.UseRSIFilter
	c.RSIPeriod = file.RSIPeriod
	c.RSIThreshold = file.RSIThreshold
	c.InitialCapital = file.InitialCapital
	c.CloseOpenPositionAtEnd = file.CloseOpenPositionAtEnd

	if file.StartTime != nil {
		c.StartTime = optional.Some(*file.StartTime)
	}

	if file.EndTime != nil {
		c.EndTime = optional.Some(*file.EndTime)
	}

	return nil
}

// Validate checks the field constraints and the rules that span fields.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if c.MAKind == types.MAKindExponential && c.EMAMode == "" {
		return errors.New(errors.ErrCodeBacktestConfigError, "invalid backtest config: ema_mode is required when ma_kind is ema")
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && !c.EndTime.Unwrap().After(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "invalid backtest config: end_time must be after start_time")
	}

	return nil
}

// SignalConfig returns the indicator configuration of the run.
func (c Config) SignalConfig() types.SignalConfig {
	return types.SignalConfig{
		ShortPeriod: c.ShortPeriod,
		LongPeriod:  c.LongPeriod,
		MAKind:      c.MAKind,
		EMAMode:     c.EMAMode,
		WithRSI:     c.UseRSIFilter,
		RSIPeriod:   c.RSIPeriod,
	}
}

// SimulateOptions returns the simulation options of the run.
func (c Config) SimulateOptions() SimulateOptions {
	return SimulateOptions{
		UseRSIFilter:           c.UseRSIFilter,
		RSIThreshold:           c.RSIThreshold,
		CloseOpenPositionAtEnd: c.CloseOpenPositionAtEnd,
	}
}

// Rules returns the entry rules of the run.
func (c Config) Rules() strategy.Rules {
	return strategy.Rules{
		UseRSIFilter: c.UseRSIFilter,
		RSIThreshold: c.RSIThreshold,
	}
}

// Name returns the strategy name of the run, e.g. "EMA_Cross_30_100".
func (c Config) Name() string {
	return strategy.Name(c.SignalConfig(), c.Rules())
}

// WithPeriods returns a copy of the config with other crossover periods.
func (c Config) WithPeriods(shortPeriod, longPeriod int) Config {
	c.ShortPeriod = shortPeriod
	c.LongPeriod = longPeriod

	return c
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(optional.Option[time.Time]{}):
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case reflect.TypeOf(types.MAKind("")):
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{string(types.MAKindSimple), string(types.MAKindExponential)},
				}
			case reflect.TypeOf(types.EMAMode("")):
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{string(types.EMAModeAdjusted), string(types.EMAModeUnadjusted)},
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "crossover-backtest-config"
	schema.Description = "Configuration schema for a moving-average crossover backtest"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a Config with default values.
func EmptyConfig() Config {
	return Config{
		Symbol:                 "",
		ShortPeriod:            30,
		LongPeriod:             100,
		MAKind:                 types.MAKindExponential,
		EMAMode:                types.EMAModeUnadjusted,
		UseRSIFilter:           false,
		RSIPeriod:              types.DefaultRSIPeriod,
		RSIThreshold:           strategy.DefaultRSIThreshold,
		InitialCapital:         100,
		CloseOpenPositionAtEnd: false,
		StartTime:              optional.None[time.Time](),
		EndTime:                optional.None[time.Time](),
	}
}

// LoadConfig reads a YAML config file over EmptyConfig and validates it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read config file %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML content over EmptyConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	config := EmptyConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}
