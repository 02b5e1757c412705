package pyroscope

import (
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
)

func (cfg *Config) tags(appVersion string) map[string]string {
	tags := map[string]string{
		"hostname": os.Getenv("HOSTNAME"),
		"version":  appVersion,
	}
	for k, v := range cfg.Tags {
		tags[k] = v
	}
	return tags
}

// Run starts continuous profiling. It's a no-op unless enabled.
func Run(config Config, appVersion string) error {
	if !config.Enabled {
		return nil
	}

	runtime.SetMutexProfileFraction(config.MutexProfileFraction)
	runtime.SetBlockProfileRate(config.BlockProfileRate)

	pyroscopeConfig := pyroscope.Config{
		ApplicationName: config.ApplicationName,
		ServerAddress:   config.ServerAddress,
		Tags:            config.tags(appVersion),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,

			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
		},
	}

	if config.BlockProfileRate > 0 {
		pyroscopeConfig.ProfileTypes = append(pyroscopeConfig.ProfileTypes,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		)
	}

	if config.ApiKey != "" {
		pyroscopeConfig.AuthToken = config.ApiKey
	}

	_, err := pyroscope.Start(pyroscopeConfig)
	return err
}
