package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	submit = entities.ByCSS("button[type='submit']")
	quick  = Options{Timeout: 60 * time.Millisecond, Interval: 5 * time.Millisecond}
)

func TestDefaults(t *testing.T) {
	d := &mockDriver{}

	assert.Equal(t, Options{Timeout: 20 * time.Second, Interval: 500 * time.Millisecond}, NewBounded(d, Options{}).Options())
	assert.Equal(t, Options{Timeout: 10 * time.Second, Interval: 200 * time.Millisecond}, NewFluent(d, Options{}).Options())
	assert.Equal(t, 3*time.Second, NewBounded(d, Options{Timeout: 3 * time.Second}).Options().Timeout)
}

func TestUntilConditions(t *testing.T) {
	tests := []struct {
		name      string
		displayed bool
		enabled   bool
		cond      entities.Condition
		wantOK    bool
	}{
		{name: "visible element", displayed: true, enabled: true, cond: entities.ConditionVisible, wantOK: true},
		{name: "hidden element is not visible", displayed: false, enabled: true, cond: entities.ConditionVisible},
		{name: "enabled element is clickable", displayed: true, enabled: true, cond: entities.ConditionClickable, wantOK: true},
		{name: "disabled element is not clickable", displayed: true, enabled: false, cond: entities.ConditionClickable},
		{name: "hidden element is present", displayed: false, cond: entities.ConditionAnyPresent, wantOK: true},
		{name: "hidden element counts for all present", displayed: false, cond: entities.ConditionAllPresent, wantOK: true},
		{name: "hidden element is invisible", displayed: false, cond: entities.ConditionInvisible, wantOK: true},
		{name: "shown element is not invisible", displayed: true, cond: entities.ConditionInvisible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := &mockElement{}
			el.On("IsDisplayed").Return(tt.displayed, nil)
			el.On("IsEnabled").Return(tt.enabled, nil)
			d := &mockDriver{}
			d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{el}, nil)

			got, err := NewBounded(d, quick).Until(context.Background(), submit, tt.cond)
			if tt.wantOK {
				require.NoError(t, err)
				if tt.cond != entities.ConditionInvisible {
					require.Len(t, got, 1)
				}
				return
			}

			var te *entities.TimeoutError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, submit, te.Locator)
			assert.Equal(t, tt.cond, te.Condition)
		})
	}
}

func TestUntilAllPresentReturnsEveryMatch(t *testing.T) {
	a, b := &mockElement{}, &mockElement{}
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{a, b}, nil)

	got, err := NewBounded(d, quick).Until(context.Background(), submit, entities.ConditionAllPresent)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUntilNothingMatches(t *testing.T) {
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{}, nil)

	_, err := NewBounded(d, quick).Until(context.Background(), submit, entities.ConditionAnyPresent)
	assert.True(t, entities.IsTimeout(err))

	_, err = NewBounded(d, quick).Until(context.Background(), submit, entities.ConditionInvisible)
	assert.NoError(t, err)
}

func TestUntilElementAppearsLater(t *testing.T) {
	el := &mockElement{}
	el.On("IsDisplayed").Return(true, nil)
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{}, nil).Twice()
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{el}, nil)

	got, err := NewBounded(d, quick).Until(context.Background(), submit, entities.ConditionVisible)
	require.NoError(t, err)
	assert.Same(t, el, got[0])
	d.AssertNumberOfCalls(t, "FindElements", 3)
}

func TestUntilRetriesStaleElement(t *testing.T) {
	el := &mockElement{}
	el.On("IsDisplayed").Return(false, entities.ErrStaleElement).Once()
	el.On("IsDisplayed").Return(true, nil)
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{el}, nil)

	_, err := NewBounded(d, quick).Until(context.Background(), submit, entities.ConditionVisible)
	assert.NoError(t, err)
}

func TestUntilStaleAtDeadlineGetsOneMoreAttempt(t *testing.T) {
	el := &mockElement{}
	el.On("IsDisplayed").Return(false, entities.ErrStaleElement).Once()
	el.On("IsDisplayed").Return(true, nil)
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{el}, nil)

	w := NewFluent(d, Options{Timeout: time.Nanosecond, Interval: time.Millisecond})
	_, err := w.Until(context.Background(), submit, entities.ConditionVisible)
	assert.NoError(t, err)
}

func TestUntilStaleUntilTimeoutKeepsCause(t *testing.T) {
	el := &mockElement{}
	el.On("IsDisplayed").Return(false, entities.ErrStaleElement)
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{el}, nil)

	_, err := NewBounded(d, quick).Until(context.Background(), submit, entities.ConditionVisible)
	assert.True(t, entities.IsTimeout(err))
	assert.ErrorIs(t, err, entities.ErrStaleElement)
}

func TestUntilDriverFailureIsNotRetried(t *testing.T) {
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return(nil, entities.ErrSessionClosed)

	_, err := NewBounded(d, quick).Until(context.Background(), submit, entities.ConditionVisible)
	assert.ErrorIs(t, err, entities.ErrSessionClosed)
	assert.False(t, entities.IsTimeout(err))
	d.AssertNumberOfCalls(t, "FindElements", 1)
}

func TestUntilHonoursContext(t *testing.T) {
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBounded(d, Options{Timeout: time.Minute, Interval: time.Second}).Until(ctx, submit, entities.ConditionVisible)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUntilUnknownCondition(t *testing.T) {
	d := &mockDriver{}
	d.On("FindElements", mock.Anything, submit).Return([]interfaces.Element{}, nil)

	_, err := NewBounded(d, quick).Until(context.Background(), submit, entities.Condition("focused"))
	assert.ErrorContains(t, err, "unknown wait condition")
}
