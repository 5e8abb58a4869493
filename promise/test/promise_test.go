package test

import (
	"context"
	"errors"
	"github.com/enhance-go/enhance/promise"
	"github.com/stretchr/testify/suite"
	"reflect"
	"testing"
)

type PromiseTestSuite struct {
	suite.Suite
}

func (suite *PromiseTestSuite) TestResolve() {
	value, err := promise.Resolve(42).Await()
	suite.Nil(err)
	suite.Equal(42, value)
}

func (suite *PromiseTestSuite) TestReject() {
	expected := errors.New("rejected")
	_, err := promise.Reject[int](expected).Await()
	suite.ErrorIs(err, expected)
}

func (suite *PromiseTestSuite) TestExecutor() {
	p := promise.New(nil, func(resolve func(string), reject func(error), onCancel func(func())) {
		resolve("done")
	})
	value, err := p.Await()
	suite.Nil(err)
	suite.Equal("done", value)
}

func (suite *PromiseTestSuite) TestExecutorPanicRejects() {
	p := promise.New(nil, func(resolve func(int), reject func(error), onCancel func(func())) {
		panic("boom")
	})
	_, err := p.Await()
	suite.Require().NotNil(err)
	suite.Contains(err.Error(), "boom")
}

func (suite *PromiseTestSuite) TestThen() {
	value, err := promise.Then(promise.Resolve(21), func(data int) int {
		return data * 2
	}).Await()
	suite.Nil(err)
	suite.Equal(42, value)
}

func (suite *PromiseTestSuite) TestCatch() {
	expected := errors.New("original")
	translated := errors.New("translated")
	_, err := promise.Catch(promise.Reject[int](expected), func(error) error {
		return translated
	}).Await()
	suite.ErrorIs(err, translated)
}

func (suite *PromiseTestSuite) TestCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	p := promise.New(ctx, func(resolve func(int), reject func(error), onCancel func(func())) {
		<-ctx.Done()
	})
	cancel()
	_, err := p.Await()
	var canceled promise.CanceledError
	suite.ErrorAs(err, &canceled)
}

func (suite *PromiseTestSuite) TestInspect() {
	underlying, ok := promise.Inspect(reflect.TypeOf(&promise.Promise[int]{}))
	suite.True(ok)
	suite.Equal(reflect.TypeOf(0), underlying)

	_, ok = promise.Inspect(reflect.TypeOf(42))
	suite.False(ok)
}

func (suite *PromiseTestSuite) TestReflect() {
	var future promise.Reflect = promise.Resolve("data")
	value, err := future.AwaitAny()
	suite.Nil(err)
	suite.Equal("data", value)
}

func (suite *PromiseTestSuite) TestCoerce() {
	value, err := promise.Coerce[int](promise.Resolve(42)).Await()
	suite.Nil(err)
	suite.Equal(42, value)
}

func TestPromiseTestSuite(t *testing.T) {
	suite.Run(t, new(PromiseTestSuite))
}
