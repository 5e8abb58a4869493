package enhance

import (
	"github.com/stretchr/testify/suite"
	"testing"
)

type StructTypeTestSuite struct {
	suite.Suite
}

func (suite *StructTypeTestSuite) TestOf() {
	suite.Run("Name", func() {
		suite.Equal("Screen", Of[Screen]().Name())
	})

	suite.Run("RejectsNonStruct", func() {
		suite.Panics(func() { Of[int]() })
	})

	suite.Run("RejectsDuplicateTokens", func() {
		suite.Panics(func() { Of[Screen]("log", "log") })
	})
}

func (suite *StructTypeTestSuite) TestDependencies() {
	typ := Of[Screen]("log", "db")
	deps := typ.Dependencies()
	suite.Equal([]Token{"log", "db"}, deps)
	deps[0] = "mutated"
	suite.Equal([]Token{"log", "db"}, typ.Dependencies())
}

func (suite *StructTypeTestSuite) TestNew() {
	suite.Run("InvokesConstructor", func() {
		log := &CallLog{}
		db := &Database{DSN: "main"}
		instance, err := Of[Screen]("log", "db").New(log, db)
		suite.Require().Nil(err)
		screen := instance.(*Screen)
		suite.Same(log, screen.log)
		suite.Same(db, screen.db)
	})

	suite.Run("NoConstructor", func() {
		instance, err := Of[Database]().New()
		suite.Require().Nil(err)
		suite.IsType(&Database{}, instance)
	})

	suite.Run("ArgsWithoutConstructor", func() {
		_, err := Of[Database]().New("dsn")
		suite.Require().NotNil(err)
		var construction *ConstructionError
		suite.ErrorAs(err, &construction)
	})

	suite.Run("ArgumentCountMismatch", func() {
		_, err := Of[Screen]("log", "db").New(&CallLog{})
		suite.Require().NotNil(err)
		suite.Contains(err.Error(), "expected 2 arguments")
	})

	suite.Run("ConstructorFailure", func() {
		_, err := Of[Brittle]("log").New(&CallLog{})
		suite.ErrorIs(err, errBrittle)
		var construction *ConstructionError
		suite.ErrorAs(err, &construction)
		suite.Equal("Brittle", construction.Type().Name())
	})
}

func (suite *StructTypeTestSuite) TestStatics() {
	typ := Of[Screen]("log", "db").WithStatic("Version", "1.4")

	descriptor, ok := typ.Static("Version")
	suite.True(ok)
	suite.Equal("1.4", descriptor.Value)

	descriptor, ok = typ.Static(DependenciesProperty)
	suite.True(ok)
	suite.Equal([]Token{"log", "db"}, descriptor.Value)
	suite.True(descriptor.Enumerable)
	suite.False(descriptor.Writable)

	_, ok = typ.Static("Missing")
	suite.False(ok)

	suite.Equal([]string{DependenciesProperty, "Version"}, typ.StaticKeys())
}

func TestStructTypeTestSuite(t *testing.T) {
	suite.Run(t, new(StructTypeTestSuite))
}
