package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// bindEnv registers every key so AutomaticEnv sees it during Unmarshal
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"server.url", "server.timeout",
		"storage.dir", "storage.in_memory",
		"ui.theme", "ui.show_covers", "ui.notice_ttl_sec",
		"logging.file", "logging.level",
	} {
		_ = v.BindEnv(key)
	}
}

func asConfigNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	return errors.As(err, target)
}
