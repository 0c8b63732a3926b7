package article_test

import (
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/priceworks/article-service/internal/obs"
)

func TestMain(m *testing.M) {
	obs.MustRegisterDomainMetrics("articles_test", prometheus.NewRegistry())
	os.Exit(m.Run())
}
