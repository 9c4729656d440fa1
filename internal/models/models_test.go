package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBottleStatus(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		quantity  int
		want      string
	}{
		{"untouched", 0, 100, StatusPending},
		{"partial", 40, 100, StatusInProgress},
		{"complete", 100, 100, StatusCompleted},
		{"zero quantity never completes", 0, 0, StatusPending},
		{"single unit done", 1, 1, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BottleStatus(tt.completed, tt.quantity))
		})
	}
}

func TestDeriveOrderStatus(t *testing.T) {
	order := func(statuses ...string) *Order {
		o := &Order{OrderNumber: "O-1"}
		item := Item{ItemID: "I-1"}
		for i, s := range statuses {
			item.Bottles = append(item.Bottles, Bottle{
				DecoCode: string(rune('A' + i)),
				Status:   s,
			})
		}
		o.Items = []Item{item}
		return o
	}

	t.Run("all completed", func(t *testing.T) {
		require.Equal(t, StatusCompleted, DeriveOrderStatus(order(StatusCompleted, StatusCompleted)))
	})

	t.Run("any in progress", func(t *testing.T) {
		require.Equal(t, StatusInProgress, DeriveOrderStatus(order(StatusPending, StatusInProgress)))
	})

	t.Run("all pending", func(t *testing.T) {
		require.Equal(t, StatusPending, DeriveOrderStatus(order(StatusPending, StatusPending)))
	})

	t.Run("completed mixed with pending", func(t *testing.T) {
		require.Equal(t, StatusPending, DeriveOrderStatus(order(StatusCompleted, StatusPending)))
	})

	t.Run("prior in-progress order stays in progress", func(t *testing.T) {
		o := order(StatusPending, StatusPending)
		o.OrderStatus = StatusInProgress
		require.Equal(t, StatusInProgress, DeriveOrderStatus(o))
	})

	t.Run("empty order is pending", func(t *testing.T) {
		require.Equal(t, StatusPending, DeriveOrderStatus(&Order{OrderNumber: "O-2"}))
	})
}

func TestFlexIntCoercion(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"number", `{"units_produced": 12}`, 12},
		{"numeric string", `{"units_produced": "34"}`, 34},
		{"garbage string", `{"units_produced": "abc"}`, 0},
		{"null", `{"units_produced": null}`, 0},
		{"boolean", `{"units_produced": true}`, 0},
		{"absent", `{}`, 0},
		{"float truncates", `{"units_produced": 7.9}`, 7},
		{"huge exponent number", `{"units_produced": 1e99}`, 0},
		{"huge exponent string", `{"units_produced": "1e99"}`, 0},
		{"negative huge exponent", `{"units_produced": -1e99}`, 0},
		{"nan string", `{"units_produced": "NaN"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var upd ProgressUpdate
			require.NoError(t, json.Unmarshal([]byte(tt.body), &upd))
			require.Equal(t, tt.want, upd.UnitsProduced.Int())
		})
	}
}

func TestFlexIntMarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(FlexInt(42))
	require.NoError(t, err)
	require.Equal(t, "42", string(data))
}

func TestDatasetLookups(t *testing.T) {
	dataset := Dataset{Orders: []Order{
		{
			OrderNumber: "O-1",
			Items: []Item{
				{ItemID: "I-1", Bottles: []Bottle{{DecoCode: "D-1", Name: "amber-500ml"}}},
			},
		},
	}}

	order := dataset.FindOrder("O-1")
	require.NotNil(t, order)
	require.Nil(t, dataset.FindOrder("O-2"))

	item := order.FindItem("I-1")
	require.NotNil(t, item)
	require.Nil(t, order.FindItem("I-2"))

	require.NotNil(t, item.FindBottle("D-1"))
	require.Nil(t, item.FindBottle("D-9"))
}
