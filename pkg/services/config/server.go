package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig is the web process configuration. ManagementProfile
// and MemberProfile name the two credential roles in the credentials
// file: the organization-admin identity that inventories, bills,
// invites and cancels, and the invited-account identity that accepts
// and lists received invitations.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	CredentialsFile   string        `mapstructure:"credentials_file"`
	ManagementProfile string        `mapstructure:"management_profile"`
	MemberProfile     string        `mapstructure:"member_profile"`
}

func LoadServerConfig(path string) (*ServerConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("addr", ":8080")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("management_profile", "management")
	v.SetDefault("member_profile", "member")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	return &cfg, nil
}
