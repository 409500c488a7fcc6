package calculator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lovecalc/internal/domain"
	"lovecalc/internal/mocks"
)

// newTestLogger создаёт логгер для тестов (выводит только ошибки, чтобы не засорять вывод).
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func dispatchKeys(t *testing.T, uc *UseCase, keys string) (domain.State, []domain.Effect) {
	t.Helper()
	var (
		state domain.State
		all   []domain.Effect
	)
	for _, ev := range typeKeys(t, keys) {
		var effects []domain.Effect
		state, effects = uc.Dispatch(context.Background(), ev)
		all = append(all, effects...)
	}
	return state, all
}

func TestLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockStore.EXPECT().Load(gomock.Any()).Return([]string{"1 + 1 = 2"}, nil)

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	require.NoError(t, uc.Load(context.Background()))

	assert.Equal(t, []string{"1 + 1 = 2"}, uc.History())
	assert.Equal(t, "1 + 1 = 2", uc.State().Preview())
	assert.Equal(t, "0", uc.State().Display)
}

func TestLoad_TruncatesToCapacity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	saved := make([]string, 15)
	for i := range saved {
		saved[i] = "entry"
	}
	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockStore.EXPECT().Load(gomock.Any()).Return(saved, nil)

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	require.NoError(t, uc.Load(context.Background()))
	assert.Len(t, uc.History(), domain.HistoryCapacity)
}

func TestLoad_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeErr := errors.New("connection refused")
	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockStore.EXPECT().Load(gomock.Any()).Return(nil, storeErr)

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	err := uc.Load(context.Background())
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "load history")
}

// Успешный расчёт: история сохраняется, расчёт публикуется, наружу уходит только звук.
func TestDispatch_CalculateSavesAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockBroker := mocks.NewMockIProducer(ctrl)

	fixed := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	gomock.InOrder(
		mockStore.EXPECT().Save(gomock.Any(), []string{"2 + 3 = 5"}).Return(nil),
		mockBroker.EXPECT().Publish(gomock.Any(), domain.Calculation{
			Kind:       domain.KindArithmetic,
			Expression: "2 + 3",
			Result:     "5",
			Timestamp:  fixed,
		}).Return(nil),
	)

	uc := New(mockStore, mockBroker, nil, domain.DefaultOptions(), newTestLogger())
	uc.now = func() time.Time { return fixed }

	state, effects := dispatchKeys(t, uc, "2+3=")

	assert.Equal(t, "5", state.Display)
	assert.Equal(t, []string{"2 + 3 = 5"}, state.History)
	for _, eff := range effects {
		assert.IsType(t, domain.PlayTone{}, eff)
	}
}

// Ошибка расчёта: история не трогается, расчёт с ошибкой публикуется, таймер ошибки уходит наружу.
func TestDispatch_CalculateErrorPublishesWithoutSaving(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockBroker := mocks.NewMockIProducer(ctrl)
	// Save не вызывается.
	mockBroker.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c domain.Calculation) error {
			assert.Equal(t, "5 / 0", c.Expression)
			assert.Equal(t, "Result is infinity", c.Error)
			assert.True(t, c.Failed())
			return nil
		})

	uc := New(mockStore, mockBroker, nil, domain.DefaultOptions(), newTestLogger())
	state, effects := dispatchKeys(t, uc, "5/0=")

	assert.Equal(t, "0", state.Display)
	assert.Equal(t, "Result is infinity", state.Error.Message)
	assert.Contains(t, effects, domain.Effect(domain.ScheduleDismiss{
		Transient: domain.TransientError, Gen: state.Error.Gen, After: domain.ErrorTTL,
	}))
}

// Сбой хранилища и брокера не откатывает состояние сессии.
func TestDispatch_InfrastructureFailuresKeepState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockBroker := mocks.NewMockIProducer(ctrl)
	mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	mockBroker.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	uc := New(mockStore, mockBroker, nil, domain.DefaultOptions(), newTestLogger())
	state, _ := dispatchKeys(t, uc, "6*7=")

	assert.Equal(t, "42", state.Display)
	assert.Equal(t, []string{"6 * 7 = 42"}, uc.History())
}

func TestDispatch_ScientificWithoutBroker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockStore.EXPECT().Save(gomock.Any(), []string{"pow2(9) = 81"}).Return(nil)

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	dispatchKeys(t, uc, "9")
	state, _ := uc.Dispatch(context.Background(), domain.Scientific(domain.SciPow2))

	assert.Equal(t, "81", state.Display)
	assert.Equal(t, "pow2(9) = 81", state.Equation)
}

// Возвращённое состояние — копия: его изменение не влияет на сессию.
func TestDispatch_ReturnsCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	state, _ := dispatchKeys(t, uc, "1+2=")
	state.History[0] = "changed"

	assert.Equal(t, []string{"1 + 2 = 3"}, uc.History())
}

func TestDispatch_SlowStoreDoesNotBlockState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entered := make(chan struct{})
	release := make(chan struct{})
	mockStore := mocks.NewMockIHistoryStore(ctrl)
	mockStore.EXPECT().Save(gomock.Any(), []string{"2 + 3 = 5"}).DoAndReturn(func(context.Context, []string) error {
		close(entered)
		<-release
		return nil
	})

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	dispatchKeys(t, uc, "2+3")

	saved := make(chan domain.State)
	go func() {
		state, _ := uc.Dispatch(context.Background(), domain.Equals())
		saved <- state
	}()
	<-entered

	// Пока хранилище висит, состояние читается и события без сохранения проходят.
	got := make(chan domain.State)
	go func() {
		uc.Dispatch(context.Background(), domain.Toggle(domain.EventToggleDark))
		got <- uc.State()
	}()
	select {
	case s := <-got:
		assert.Equal(t, "5", s.Display)
		assert.True(t, s.Dark)
		assert.Equal(t, []string{"2 + 3 = 5"}, s.History)
	case <-time.After(time.Second):
		t.Fatal("State заблокирован сохранением истории")
	}

	close(release)
	select {
	case s := <-saved:
		assert.Equal(t, "5", s.Display)
	case <-time.After(time.Second):
		t.Fatal("Dispatch не вернулся после сохранения")
	}
}

func TestClearHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	gomock.InOrder(
		mockStore.EXPECT().Load(gomock.Any()).Return([]string{"1 + 1 = 2"}, nil),
		mockStore.EXPECT().Save(gomock.Any(), []string{}).Return(nil),
	)

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	require.NoError(t, uc.Load(context.Background()))
	require.NoError(t, uc.ClearHistory(context.Background()))
	assert.Empty(t, uc.History())
}

func TestClearHistory_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockIHistoryStore(ctrl)
	gomock.InOrder(
		mockStore.EXPECT().Load(gomock.Any()).Return([]string{"1 + 1 = 2"}, nil),
		mockStore.EXPECT().Save(gomock.Any(), []string{}).Return(errors.New("timeout")),
	)

	uc := New(mockStore, nil, nil, domain.DefaultOptions(), newTestLogger())
	require.NoError(t, uc.Load(context.Background()))
	require.Error(t, uc.ClearHistory(context.Background()))
	assert.Equal(t, []string{"1 + 1 = 2"}, uc.History())
}

func TestEvaluate_Stateless(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Ни хранилище, ни брокер не вызываются.
	uc := New(mocks.NewMockIHistoryStore(ctrl), mocks.NewMockIProducer(ctrl), nil, domain.DefaultOptions(), newTestLogger())

	got, err := uc.Evaluate("(1 + 2) * 3")
	require.NoError(t, err)
	assert.Equal(t, "9", got)
	assert.Empty(t, uc.History())

	_, err = uc.Evaluate("5/0")
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)
}

func TestHandleCalculationEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalytics := mocks.NewMockICalculationAnalytics(ctrl)
	calc := domain.Calculation{Kind: domain.KindArithmetic, Expression: "2 + 2", Result: "4"}
	mockAnalytics.EXPECT().WriteCalculation(gomock.Any(), calc).Return(nil)

	uc := New(nil, nil, mockAnalytics, domain.DefaultOptions(), newTestLogger())
	require.NoError(t, uc.HandleCalculationEvent(context.Background(), calc))
}

func TestHandleCalculationEvent_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalytics := mocks.NewMockICalculationAnalytics(ctrl)
	mockAnalytics.EXPECT().WriteCalculation(gomock.Any(), gomock.Any()).Return(errors.New("clickhouse down"))

	uc := New(nil, nil, mockAnalytics, domain.DefaultOptions(), newTestLogger())
	assert.Error(t, uc.HandleCalculationEvent(context.Background(), domain.Calculation{}))
}

// Schedule гасит транзиент по таймеру; устаревший таймер ничего не делает.
func TestSchedule(t *testing.T) {
	uc := New(nil, nil, nil, domain.DefaultOptions(), newTestLogger())

	state, _ := uc.Dispatch(context.Background(), domain.Equals())
	require.True(t, state.Error.Active)

	uc.Schedule(context.Background(), []domain.Effect{
		domain.PlayTone{Tone: domain.ToneCalculate},
		domain.ScheduleDismiss{Transient: domain.TransientError, Gen: state.Error.Gen + 100, After: time.Millisecond},
	})
	time.Sleep(20 * time.Millisecond)
	assert.True(t, uc.State().Error.Active)

	uc.Schedule(context.Background(), []domain.Effect{
		domain.ScheduleDismiss{Transient: domain.TransientError, Gen: state.Error.Gen, After: time.Millisecond},
	})
	assert.Eventually(t, func() bool {
		return !uc.State().Error.Active
	}, time.Second, 5*time.Millisecond)
}

func TestWithDark(t *testing.T) {
	uc := New(nil, nil, nil, domain.DefaultOptions(), newTestLogger()).WithDark(true)
	assert.True(t, uc.State().Dark)
}
