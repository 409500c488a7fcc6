//go:build integration

package click

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovecalc/internal/domain"
	"lovecalc/internal/pkg/testutil"
)

// setupClickWriter подключается к тестовому ClickHouse и создаёт таблицу.
func setupClickWriter(t *testing.T) (*CalculationWriter, *Client) {
	t.Helper()
	container := testutil.StartClickHouse(t)
	ctx := context.Background()

	client, err := New(ctx, &Config{
		Host:     container.Host,
		Port:     container.Port,
		Database: container.Database,
		Username: container.User,
		Password: container.Password,
	})
	require.NoError(t, err, "не удалось подключиться к ClickHouse")
	t.Cleanup(func() { client.Close() })

	writer := NewCalculationWriter(client)
	require.NoError(t, writer.EnsureTable(ctx), "не удалось создать таблицу")
	return writer, client
}

func TestCalculationWriter_WriteCalculation(t *testing.T) {
	writer, client := setupClickWriter(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, writer.WriteCalculation(ctx, domain.Calculation{
		Kind: domain.KindArithmetic, Expression: "1 + 1", Result: "2", Love: true, Timestamp: now,
	}))
	require.NoError(t, writer.WriteCalculation(ctx, domain.Calculation{
		Kind: domain.KindScientific, Expression: "sqrt(-4)", Error: domain.ErrNegativeSquareRoot.Error(), Timestamp: now,
	}))

	var total, failed, love uint64
	err := client.DB().QueryRowContext(ctx,
		"SELECT count(), countIf(failed = 1), countIf(love = 1) FROM "+client.Table()).
		Scan(&total, &failed, &love)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 1, failed)
	assert.EqualValues(t, 1, love)
}
