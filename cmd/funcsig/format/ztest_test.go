package format_test

import (
	"testing"

	"github.com/brimdata/funcsig/ztest"
)

func TestZTest(t *testing.T) { ztest.Run(t, "testdata/ztest") }
