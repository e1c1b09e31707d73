// Package app wires configuration into a ready handler.
package app

import (
	"go.uber.org/zap"

	"github.com/pricofy/youdao-translate/internal/config"
	"github.com/pricofy/youdao-translate/internal/handler"
	"github.com/pricofy/youdao-translate/internal/signer"
	"github.com/pricofy/youdao-translate/internal/translate"
	"github.com/pricofy/youdao-translate/internal/youdao"
)

// NewSigner picks the signing scheme named in cfg.
func NewSigner(cfg *config.Config) signer.Signer {
	creds := signer.Credentials{AppKey: cfg.AppKey, AppSecret: cfg.AppSecret}
	if cfg.SignScheme == config.SchemeLegacy {
		return signer.NewLegacy(creds)
	}
	return signer.NewV3(creds)
}

// NewHandler builds the full request path: handler → service → client.
func NewHandler(cfg *config.Config, logger *zap.Logger) *handler.Handler {
	client := youdao.NewClient(youdao.Options{
		Endpoint:  cfg.APIURL,
		AppKey:    cfg.AppKey,
		Signer:    NewSigner(cfg),
		Transport: youdao.Transport(cfg.Transport),
		Timeout:   cfg.Timeout,
	}, logger.Named("youdao"))

	svc := translate.NewService(client, cfg.DefaultTargetLanguage, logger.Named("translate"))

	logger.Info("Translation handler ready",
		zap.Bool("hasAppKey", cfg.AppKey != ""),
		zap.Bool("hasAppSecret", cfg.AppSecret != ""),
		zap.String("scheme", cfg.SignScheme),
		zap.String("transport", cfg.Transport),
		zap.Duration("timeout", cfg.Timeout))

	return handler.New(svc, logger.Named("handler"))
}
