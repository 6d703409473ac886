package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion upload endpoint over HTTP",
	Long: `serve accepts presentation uploads on POST /api/convert (multipart field
"file") and answers with the converted workbook.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8000)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	opts, err := buildOptions(logger)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	if s, ok := opts.Legacy.(interface{ Available() bool }); ok && !s.Available() {
		logger.Warn("LibreOffice not found; .ppt uploads will be rejected")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(qamatrix.NewConverter(opts), serverConfig(), logger)
	return srv.Run(ctx)
}
