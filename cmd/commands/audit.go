package commands

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/ardanlabs/conf/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/postgres"
)

// Audit compares the free resources table with the storage bucket.
//
//	audit report             matched, missing and orphaned paths
//	audit sign [ttl-seconds] signed URLs for every matched path
//	audit update             refresh the stored signed URLs
func Audit() error {
	cfg := struct {
		Debug    bool          `conf:"default:false"`
		Timeout  time.Duration `conf:"default:5m"`
		Postgres PostgresConfig
		Storage  StorageConfig
		Args     conf.Args
	}{}
	if done, err := parseConfig(&cfg); done || err != nil {
		return err
	}
	log, err := createLogger(levelFor(cfg.Debug))
	if err != nil {
		return err
	}
	defer log.Sync()

	dbConn, err := openDB(cfg.Postgres)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	store, err := openStorage(cfg.Storage, cfg.Storage.ResourcesBucket)
	if err != nil {
		return err
	}
	reconciler := application.NewReconciler(log, store, postgres.NewResourcesRepository(dbConn))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	switch cfg.Args.Num(0) {
	case "report", "":
		report, err := reconciler.Reconcile(ctx)
		if err != nil {
			return err
		}
		return printJSON(report)
	case "sign":
		ttl := cfg.Storage.SignedURLTTL
		if arg := cfg.Args.Num(1); arg != "" {
			secs, err := strconv.Atoi(arg)
			if err != nil || secs <= 0 {
				return errors.New("invalid ttl parameter: " + arg)
			}
			ttl = time.Duration(secs) * time.Second
		}
		report, err := reconciler.Reconcile(ctx)
		if err != nil {
			return err
		}
		return printJSON(reconciler.SignURLs(ctx, report.Matched, ttl))
	case "update":
		res, err := reconciler.UpdateSignedURLs(ctx, cfg.Storage.SignedURLTTL)
		if err != nil {
			return err
		}
		return printJSON(res)
	}
	return errors.New("unknown audit command [report|sign|update]")
}

func printJSON(v interface{}) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
