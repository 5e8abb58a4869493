package enhance

import (
	"github.com/stretchr/testify/suite"
	"testing"
)

type GuardTestSuite struct {
	suite.Suite
}

func (suite *GuardTestSuite) TestProtocolMethod() {
	suite.Run("RecognizesProtocolMethods", func() {
		for _, name := range []string{
			"String", "GoString", "Format", "Error", "Unwrap",
			"Equal", "Hash", "MarshalJSON", "UnmarshalText",
		} {
			suite.True(ProtocolMethod(name), name)
		}
	})

	suite.Run("IgnoresUserMethods", func() {
		for _, name := range []string{"Activate", "Dock", "Render", "string", ""} {
			suite.False(ProtocolMethod(name), name)
		}
	})
}

func TestGuardTestSuite(t *testing.T) {
	suite.Run(t, new(GuardTestSuite))
}
