package configure

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func checkErr(err error) {
	if err != nil {
		zap.S().Fatalw("config",
			"error", err,
		)
	}
}

func New() *Config {
	initLogging("info")

	config := viper.New()

	// Default config
	b, _ := json.Marshal(Config{
		ConfigFile: "config.yaml",
	})
	tmp := viper.New()
	defaultConfig := bytes.NewReader(b)

	tmp.SetConfigType("json")
	checkErr(tmp.ReadConfig(defaultConfig))
	checkErr(config.MergeConfigMap(viper.AllSettings()))

	pflag.String("config", "config.yaml", "Config file location")
	pflag.Bool("noheader", false, "Disable the startup header")

	pflag.Parse()
	checkErr(config.BindPFlags(pflag.CommandLine))

	// File
	config.SetConfigFile(config.GetString("config"))
	config.AddConfigPath(".")

	if err := config.ReadInConfig(); err == nil {
		checkErr(config.MergeInConfig())
	}

	bindEnvs(config, Config{})

	// Environment
	config.AutomaticEnv()
	config.SetEnvPrefix("CHAT")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AllowEmptyEnv(true)

	c := &Config{}
	checkErr(config.Unmarshal(&c))

	initLogging(c.Level)

	return c
}

func bindEnvs(config *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)

	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)

		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}

		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(config, v.Interface(), append(parts, tv)...)
		default:
			_ = config.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

type Config struct {
	Level      string `mapstructure:"level" json:"level"`
	ConfigFile string `mapstructure:"config" json:"config"`
	NoHeader   bool   `mapstructure:"noheader" json:"noheader"`
	WebsiteURL string `mapstructure:"website_url" json:"website_url"`

	Mongo struct {
		URI      string `mapstructure:"uri" json:"uri"`
		Username string `mapstructure:"username" json:"username"`
		Password string `mapstructure:"password" json:"password"`
		DB       string `mapstructure:"db" json:"db"`
		Direct   bool   `mapstructure:"direct" json:"direct"`
	} `mapstructure:"mongo" json:"mongo"`

	Redis struct {
		Username   string   `mapstructure:"username" json:"username"`
		Password   string   `mapstructure:"password" json:"password"`
		Database   int      `mapstructure:"db" json:"db"`
		Sentinel   bool     `mapstructure:"sentinel" json:"sentinel"`
		Addresses  []string `mapstructure:"addresses" json:"addresses"`
		MasterName string   `mapstructure:"master_name" json:"master_name"`
	} `mapstructure:"redis" json:"redis"`

	Nats struct {
		URI          string `mapstructure:"uri" json:"uri"`
		MailSubject  string `mapstructure:"mail_subject" json:"mail_subject"`
		MailQueue    string `mapstructure:"mail_queue" json:"mail_queue"`
		MailDisabled bool   `mapstructure:"mail_disabled" json:"mail_disabled"`
	} `mapstructure:"nats" json:"nats"`

	Health struct {
		Enabled bool   `mapstructure:"enabled" json:"enabled"`
		Bind    string `mapstructure:"bind" json:"bind"`
	} `mapstructure:"health" json:"health"`

	PProf struct {
		Enabled bool   `mapstructure:"enabled" json:"enabled"`
		Bind    string `mapstructure:"bind" json:"bind"`
	} `mapstructure:"pprof" json:"pprof"`

	Monitoring struct {
		Enabled bool   `mapstructure:"enabled" json:"enabled"`
		Bind    string `mapstructure:"bind" json:"bind"`
		Labels  Labels `mapstructure:"labels" json:"labels"`
	} `mapstructure:"monitoring" json:"monitoring"`

	Http struct {
		Type  string `mapstructure:"type" json:"type"`
		Addr  string `mapstructure:"addr" json:"addr"`
		Ports struct {
			REST     int `mapstructure:"rest" json:"rest"`
			Realtime int `mapstructure:"realtime" json:"realtime"`
		} `mapstructure:"ports" json:"ports"`

		VersionSuffix string `mapstructure:"version_suffix" json:"version_suffix"`

		Cookie struct {
			Domain string `mapstructure:"domain" json:"domain"`
			Secure bool   `mapstructure:"secure" json:"secure"`
		} `mapstructure:"cookie" json:"cookie"`
	} `mapstructure:"http" json:"http"`

	Realtime struct {
		// SelfEcho controls whether typing events are echoed back to the
		// sender's other sessions.
		SelfEcho        bool `mapstructure:"self_echo" json:"self_echo"`
		SendBufferSize  int  `mapstructure:"send_buffer_size" json:"send_buffer_size"`
		MaxMessageBytes int  `mapstructure:"max_message_bytes" json:"max_message_bytes"`
	} `mapstructure:"realtime" json:"realtime"`

	Limits struct {
		MaxPage        int `mapstructure:"max_page" json:"max_page"`
		ResultsPerPage int `mapstructure:"results_per_page" json:"results_per_page"`
	} `mapstructure:"limits" json:"limits"`

	S3 struct {
		Enabled      bool   `mapstructure:"enabled" json:"enabled"`
		AccessToken  string `mapstructure:"access_token" json:"access_token"`
		SecretKey    string `mapstructure:"secret_key" json:"secret_key"`
		Region       string `mapstructure:"region" json:"region"`
		PublicBucket string `mapstructure:"public_bucket" json:"public_bucket"`
		Endpoint     string `mapstructure:"endpoint" json:"endpoint"`
		Namespace    string `mapstructure:"namespace" json:"namespace"`
	} `mapstructure:"s3" json:"s3"`

	Credentials struct {
		JWTSecret string `mapstructure:"jwt_secret" json:"jwt_secret"`
	} `mapstructure:"credentials" json:"credentials"`

	Mail struct {
		FromAddress string `mapstructure:"from_address" json:"from_address"`
		FromName    string `mapstructure:"from_name" json:"from_name"`
	} `mapstructure:"mail" json:"mail"`
}

type Labels []struct {
	Key   string `mapstructure:"key" json:"key"`
	Value string `mapstructure:"value" json:"value"`
}

func (l Labels) ToPrometheus() map[string]string {
	mp := map[string]string{}

	for _, v := range l {
		mp[v.Key] = v.Value
	}

	return mp
}
