package download

import (
	"github.com/nguyentantai21042004/telop-review/internal/config"
	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/pkg/executor"
)

type implDownloader struct {
	cfg       config.DownloadConfig
	useCookie bool
	executor  executor.Executor
	logger    logger.Logger
}

// New creates a yt-dlp backed Downloader. The cookie file is passed to
// yt-dlp only when useCookie is true.
func New(cfg config.DownloadConfig, useCookie bool, exec executor.Executor, log logger.Logger) Downloader {
	return &implDownloader{
		cfg:       cfg,
		useCookie: useCookie,
		executor:  exec,
		logger:    log,
	}
}
