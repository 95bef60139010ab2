package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func TestQueryLoggerReportsFailuresAndSlowStatements(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: &buf})
	q := newQueryLogger(logg, 50*time.Millisecond)
	statement := func() (string, int64) { return "SELECT * FROM cart_items", 0 }
	ctx := context.Background()

	q.Trace(ctx, time.Now(), statement, gorm.ErrRecordNotFound)
	q.Trace(ctx, time.Now(), statement, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected quiet log for fast or missing-row queries, got %s", buf.String())
	}

	q.Trace(ctx, time.Now().Add(-time.Second), statement, nil)
	if !strings.Contains(buf.String(), "db.slow_query") {
		t.Fatalf("expected slow query entry, got %s", buf.String())
	}

	buf.Reset()
	q.Trace(ctx, time.Now(), statement, errors.New("disk I/O error"))
	out := buf.String()
	if !strings.Contains(out, "db.query_failed") || !strings.Contains(out, "cart_items") {
		t.Fatalf("expected failure entry with sql, got %s", out)
	}

	buf.Reset()
	q.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), statement, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("silent mode must not log, got %s", buf.String())
	}
}
