package support

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// theErrorShouldMentionFileNotFound verifies file not found error.
func (testCtx *TestContext) theErrorShouldMentionFileNotFound() error {
	return testCtx.theErrorShouldMention("not found")
}

// theErrorShouldMentionModelNotFound verifies model not found error.
func (testCtx *TestContext) theErrorShouldMentionModelNotFound() error {
	return testCtx.theErrorShouldMention("model")
}

// theErrorShouldMentionNoInputFiles verifies no input files error.
func (testCtx *TestContext) theErrorShouldMentionNoInputFiles() error {
	return testCtx.theErrorShouldMention("no")
}

// theErrorShouldMentionUnknownLanguage verifies unknown language error.
func (testCtx *TestContext) theErrorShouldMentionUnknownLanguage() error {
	return testCtx.theErrorShouldMention("unknown language")
}

// theErrorShouldMentionInvalidPort verifies invalid port error.
func (testCtx *TestContext) theErrorShouldMentionInvalidPort() error {
	return testCtx.theErrorShouldMention("port")
}

// theErrorShouldMentionUnsupportedFormat verifies unsupported format error.
func (testCtx *TestContext) theErrorShouldMentionUnsupportedFormat() error {
	return testCtx.theErrorShouldMention("format")
}

// theErrorShouldMentionUnknownFlag verifies unknown flag error.
func (testCtx *TestContext) theErrorShouldMentionUnknownFlag() error {
	return testCtx.theErrorShouldMention("flag")
}

// theErrorShouldSuggestAvailableCommands verifies command suggestion error.
func (testCtx *TestContext) theErrorShouldSuggestAvailableCommands() error {
	suggestionIndicators := []string{"available", "commands", "help", "usage"}
	for _, indicator := range suggestionIndicators {
		if strings.Contains(strings.ToLower(testCtx.LastOutput), indicator) {
			return nil
		}
	}
	return fmt.Errorf("error does not suggest available commands: %s", testCtx.LastOutput)
}

// theOutputShouldContainVersionInformation verifies version output.
func (testCtx *TestContext) theOutputShouldContainVersionInformation() error {
	requiredParts := []string{"version", "Commit:", "Date:"}
	for _, part := range requiredParts {
		if !strings.Contains(testCtx.LastOutput, part) {
			return fmt.Errorf("version output missing '%s'\nActual output: %s", part, testCtx.LastOutput)
		}
	}
	return nil
}

// RegisterErrorSteps registers all error handling step definitions.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the error should mention "file not found" or "no such file"$`, testCtx.theErrorShouldMentionFileNotFound)
	sc.Step(`^the error should mention the missing model$`, testCtx.theErrorShouldMentionModelNotFound)
	sc.Step(`^the error should mention missing input$`, testCtx.theErrorShouldMentionNoInputFiles)
	sc.Step(`^the error should mention an unknown language$`, testCtx.theErrorShouldMentionUnknownLanguage)
	sc.Step(`^the error should mention an invalid port$`, testCtx.theErrorShouldMentionInvalidPort)
	sc.Step(`^the error should mention an unsupported format$`, testCtx.theErrorShouldMentionUnsupportedFormat)
	sc.Step(`^the error should mention "unknown flag"$`, testCtx.theErrorShouldMentionUnknownFlag)
	sc.Step(`^the error should suggest available commands$`, testCtx.theErrorShouldSuggestAvailableCommands)
	sc.Step(`^the output should contain version information$`, testCtx.theOutputShouldContainVersionInformation)
}
