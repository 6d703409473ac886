package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/legacy"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/matrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/render"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/server"
)

func setDefaults() {
	grey := matrix.DefaultGreyThresholds()
	srv := server.DefaultConfig()

	viper.SetDefault("marker", matrix.SectionMarker)
	viper.SetDefault("template", "")
	viper.SetDefault("grey.tolerance", grey.ChannelTolerance)
	viper.SetDefault("grey.min_brightness", grey.MinBrightness)
	viper.SetDefault("grey.max_brightness", grey.MaxBrightness)
	viper.SetDefault("columns.include_undeclared", true)
	viper.SetDefault("legacy.binary", "")
	viper.SetDefault("legacy.timeout", legacy.DefaultTimeout)
	viper.SetDefault("server.addr", srv.Addr)
	viper.SetDefault("server.max_upload_mb", srv.MaxUploadBytes>>20)
	viper.SetDefault("server.allow_origin", srv.AllowOrigin)
}

func byteSetting(key string) (uint8, error) {
	v := viper.GetInt(key)
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%s must be between 0 and 255, got %d", key, v)
	}
	return uint8(v), nil
}

// buildOptions assembles conversion options from the loaded configuration.
func buildOptions(logger *slog.Logger) (qamatrix.Options, error) {
	opts := qamatrix.DefaultOptions()
	opts.Logger = logger
	opts.Marker = viper.GetString("marker")
	opts.IncludeUndeclaredColumns = viper.GetBool("columns.include_undeclared")

	var err error
	if opts.Grey.ChannelTolerance, err = byteSetting("grey.tolerance"); err != nil {
		return opts, err
	}
	if opts.Grey.MinBrightness, err = byteSetting("grey.min_brightness"); err != nil {
		return opts, err
	}
	if opts.Grey.MaxBrightness, err = byteSetting("grey.max_brightness"); err != nil {
		return opts, err
	}
	if opts.Grey.MinBrightness > opts.Grey.MaxBrightness {
		return opts, fmt.Errorf("grey.min_brightness (%d) exceeds grey.max_brightness (%d)",
			opts.Grey.MinBrightness, opts.Grey.MaxBrightness)
	}

	var declared []matrix.ColumnSpec
	if err := viper.UnmarshalKey("columns.declared", &declared); err != nil {
		return opts, fmt.Errorf("columns.declared: %w", err)
	}
	for _, c := range declared {
		if c.Label == "" {
			return opts, fmt.Errorf("columns.declared: empty label")
		}
		if !c.Outcome.Valid() {
			return opts, fmt.Errorf("columns.declared: %q has unknown outcome %q", c.Label, c.Outcome)
		}
	}
	opts.Columns = append(matrix.DefaultColumns(), declared...)

	if path := viper.GetString("template"); path != "" {
		tpl, err := render.LoadTemplate(path)
		if err != nil {
			return opts, fmt.Errorf("template: %w", err)
		}
		opts.Template = tpl
	}

	opts.Legacy = legacy.NewSoffice(viper.GetString("legacy.binary"), viper.GetDuration("legacy.timeout"))
	return opts, nil
}

func serverConfig() server.Config {
	return server.Config{
		Addr:           viper.GetString("server.addr"),
		MaxUploadBytes: viper.GetInt64("server.max_upload_mb") << 20,
		AllowOrigin:    viper.GetString("server.allow_origin"),
	}
}
