package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScan(t *testing.T) {
	tests := []struct {
		payload   string
		reference string
		err       string
	}{
		{payload: "washpos://order/WP-0042", reference: "WP-0042"},
		{payload: "  washpos://order/WP-0042\n", reference: "WP-0042"},
		{payload: "WP-0042", reference: "WP-0042"},
		{payload: "", err: "empty scan payload"},
		{payload: "washpos://order/", err: "unsupported scan payload washpos://order/"},
		{payload: "washpos://store/WP-0042", err: "unsupported scan payload washpos://store/WP-0042"},
		{payload: "https://example.com/WP-0042", err: "unsupported scan payload https://example.com/WP-0042"},
	}

	for _, test := range tests {
		reference, err := ParseScan(test.payload)
		if test.err != "" {
			assert.EqualError(t, err, test.err, test.payload)
			continue
		}
		assert.NoError(t, err, test.payload)
		assert.Equal(t, test.reference, reference, test.payload)
	}
}
