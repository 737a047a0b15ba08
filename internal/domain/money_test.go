package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "500", want: 50000},
		{in: "500.00", want: 50000},
		{in: "95.5", want: 9550},
		{in: "0.01", want: 1},
		{in: "-3.20", want: -320},
		{in: "1.234", wantErr: true},
		{in: "1.", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "5.-1", wantErr: true},
		{in: "1.+5", wantErr: true},
		{in: "--5", wantErr: true},
		{in: "+5", wantErr: true},
		{in: "-", wantErr: true},
		{in: ".50", wantErr: true},
		{in: "1 000", wantErr: true},
		{in: "92233720368547758.08", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMoney(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMoney_MulAndString(t *testing.T) {
	price := MustParseMoney("500.00")
	assert.Equal(t, "1000.00", price.Mul(2).String())
	assert.Equal(t, "95.50", MustParseMoney("95.5").String())
	assert.Equal(t, "-0.05", Money(-5).String())
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: 100000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"1000.00"}`, string(data))

	var decoded struct {
		Total Money `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"total":"12.30"}`), &decoded))
	assert.Equal(t, Money(1230), decoded.Total)
}
