package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// sampleSnippets holds one representative source snippet per language tag.
// The snippets are long enough to carry unambiguous keyword signal.
var sampleSnippets = map[string]string{
	"go": "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tvar total int\n\tfor i := 0; i < 10; i++ {\n\t\ttotal += i\n\t}\n\tfmt.Println(total)\n}\n",
	"py": "import os\nimport sys\n\n\ndef main():\n    for name in sys.argv[1:]:\n        print(os.path.abspath(name))\n\n\nif __name__ == \"__main__\":\n    main()\n",
	"js": "const fs = require('fs');\n\nfunction readAll(path) {\n  return fs.readFileSync(path, 'utf8');\n}\n\nmodule.exports = { readAll };\n",
	"rb": "require 'json'\n\nclass Greeter\n  def initialize(name)\n    @name = name\n  end\n\n  def greet\n    puts \"hello #{@name}\"\n  end\nend\n",
	"c":  "#include <stdio.h>\n#include <stdlib.h>\n\nint main(int argc, char **argv) {\n    printf(\"%d\\n\", argc);\n    return EXIT_SUCCESS;\n}\n",
}

// snippetExtensions maps language tags to a conventional file extension
// so created files look like real source files on disk.
var snippetExtensions = map[string]string{
	"go": ".go",
	"py": ".py",
	"js": ".js",
	"rb": ".rb",
	"c":  ".c",
}

// aSourceFileExists writes a sample snippet for the given language tag
// to a temp file and remembers it for command substitution.
func (testCtx *TestContext) aSourceFileExists(tag string) error {
	snippet, ok := sampleSnippets[tag]
	if !ok {
		return fmt.Errorf("no sample snippet for language tag %q", tag)
	}

	ext := snippetExtensions[tag]
	path := testCtx.GetTempFile(ext)
	if err := os.WriteFile(path, []byte(snippet), 0o600); err != nil {
		return fmt.Errorf("failed to write snippet file: %w", err)
	}

	testCtx.SnippetFiles[tag] = path
	return nil
}

// aDirectoryOfSourceFilesExists creates a directory containing one sample
// file per known language tag.
func (testCtx *TestContext) aDirectoryOfSourceFilesExists() error {
	dir := testCtx.GetTempDir("sources")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create source directory: %w", err)
	}

	for tag, snippet := range sampleSnippets {
		name := "sample" + snippetExtensions[tag]
		if err := os.WriteFile(filepath.Join(dir, name), []byte(snippet), 0o600); err != nil {
			return fmt.Errorf("failed to write %s sample: %w", tag, err)
		}
	}

	testCtx.SourceDir = dir
	return nil
}

// aTrainingCorpusExists creates a corpus directory with one subdirectory
// per language tag, each holding a couple of sample files.
func (testCtx *TestContext) aTrainingCorpusExists() error {
	corpus := testCtx.GetTempDir("corpus")

	for tag, snippet := range sampleSnippets {
		tagDir := filepath.Join(corpus, tag)
		if err := os.MkdirAll(tagDir, 0o750); err != nil {
			return fmt.Errorf("failed to create corpus directory for %s: %w", tag, err)
		}
		for i := range 2 {
			name := fmt.Sprintf("sample_%d%s", i, snippetExtensions[tag])
			if err := os.WriteFile(filepath.Join(tagDir, name), []byte(snippet), 0o600); err != nil {
				return fmt.Errorf("failed to write corpus sample: %w", err)
			}
		}
	}

	testCtx.CorpusDir = corpus
	return nil
}

// aTrainedModelExists trains a model from a generated corpus so scenarios
// can exercise the --model flag against a real model file.
func (testCtx *TestContext) aTrainedModelExists() error {
	if testCtx.CorpusDir == "" {
		if err := testCtx.aTrainingCorpusExists(); err != nil {
			return err
		}
	}

	modelPath := testCtx.GetTempFile(".yaml")
	trainCmd := fmt.Sprintf("glot train --corpus %s --output %s --evaluate=false",
		testCtx.CorpusDir, modelPath)
	if err := testCtx.iRunCommand(trainCmd); err != nil {
		return err
	}
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("training failed: %s", testCtx.LastOutput)
	}

	testCtx.ModelPath = modelPath
	return nil
}

// iRunCommand executes a command and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = testCtx.substituteCommandVariables(command)

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	// Remember --output targets so file assertions can find them.
	for i, part := range parts {
		if (part == "--output" || part == "-o") && i+1 < len(parts) {
			testCtx.LastOutputFile = testCtx.substituteCommandVariables(parts[i+1])
		}
	}

	return nil
}

// substituteCommandVariables replaces placeholders in command strings with
// paths created by earlier setup steps.
func (testCtx *TestContext) substituteCommandVariables(command string) string {
	for tag, path := range testCtx.SnippetFiles {
		command = strings.ReplaceAll(command, "{"+tag+"_file}", path)
	}
	if testCtx.SourceDir != "" {
		command = strings.ReplaceAll(command, "{source_dir}", testCtx.SourceDir)
	}
	if testCtx.CorpusDir != "" {
		command = strings.ReplaceAll(command, "{corpus_dir}", testCtx.CorpusDir)
	}
	if testCtx.ModelPath != "" {
		command = strings.ReplaceAll(command, "{model_path}", testCtx.ModelPath)
	}
	command = strings.ReplaceAll(command, "{temp_dir}", testCtx.TempDir)
	return command
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldNotContain verifies the output does not contain specific text.
func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output contains '%s' but should not\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

// extractJSONPart returns the JSON portion of the last output, skipping any
// preceding log lines.
func (testCtx *TestContext) extractJSONPart() (string, error) {
	output := strings.TrimSpace(testCtx.LastOutput)

	jsonStart := -1
	for i, r := range output {
		if r == '{' || r == '[' {
			jsonStart = i
			break
		}
	}
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in output: %s", testCtx.LastOutput)
	}
	return output[jsonStart:], nil
}

// theOutputShouldBeValidJSON verifies the output is valid JSON.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	jsonPart, err := testCtx.extractJSONPart()
	if err != nil {
		return err
	}

	var js json.RawMessage
	if err := json.Unmarshal([]byte(jsonPart), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nJSON part: %s", err, jsonPart)
	}
	return nil
}

// theJSONShouldContain verifies JSON contains a specific field.
func (testCtx *TestContext) theJSONShouldContain(field string) error {
	jsonPart, err := testCtx.extractJSONPart()
	if err != nil {
		return err
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(jsonPart), &data); err != nil {
		// Arrays of objects are also produced by batch output.
		var arr []map[string]interface{}
		if arrErr := json.Unmarshal([]byte(jsonPart), &arr); arrErr != nil || len(arr) == 0 {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		data = arr[0]
	}

	return testCtx.checkFieldExists(data, field)
}

func (testCtx *TestContext) checkFieldExists(data map[string]interface{}, field string) error {
	parts := strings.Split(field, ".")
	current := data

	for i, part := range parts {
		val, exists := current[part]
		if !exists {
			return fmt.Errorf("field '%s' not found in JSON", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return nil
		}
		nextMap, ok := val.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot navigate deeper into non-object field '%s'", part)
		}
		current = nextMap
	}

	return nil
}

// theJSONFieldShouldBe verifies a JSON string field has a specific value.
func (testCtx *TestContext) theJSONFieldShouldBe(field, expected string) error {
	jsonPart, err := testCtx.extractJSONPart()
	if err != nil {
		return err
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(jsonPart), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	val, exists := data[field]
	if !exists {
		return fmt.Errorf("field '%s' not found in JSON", field)
	}
	if fmt.Sprintf("%v", val) != expected {
		return fmt.Errorf("field '%s' is '%v', expected '%s'", field, val, expected)
	}
	return nil
}

// theOutputShouldBeValidCSV verifies output is valid CSV.
func (testCtx *TestContext) theOutputShouldBeValidCSV() error {
	lines := strings.Split(strings.TrimSpace(testCtx.LastOutput), "\n")
	if len(lines) < 1 {
		return errors.New("CSV output is empty")
	}
	if !strings.Contains(lines[0], ",") {
		return errors.New("CSV output does not contain comma separators")
	}
	return nil
}

// theCSVShouldContainProperHeaders verifies CSV headers.
func (testCtx *TestContext) theCSVShouldContainProperHeaders() error {
	if err := testCtx.theOutputShouldBeValidCSV(); err != nil {
		return err
	}

	expectedHeaders := []string{"file", "language", "confidence"}
	for _, header := range expectedHeaders {
		if !strings.Contains(testCtx.LastOutput, header) {
			return fmt.Errorf("CSV missing expected header: %s", header)
		}
	}
	return nil
}

// theErrorShouldMention verifies the error message contains specific text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil && testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}

	fullErrorText := testCtx.LastOutput
	if testCtx.LastError != nil {
		fullErrorText += " " + testCtx.LastError.Error()
	}

	if !strings.Contains(strings.ToLower(fullErrorText), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, fullErrorText)
	}
	return nil
}

// theFileShouldExist verifies a file exists.
func (testCtx *TestContext) theFileShouldExist(filename string) error {
	fullPath := testCtx.substituteCommandVariables(filename)
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(testCtx.WorkingDir, fullPath)
	}
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", fullPath)
	}
	return nil
}

// theFileShouldContain verifies a file contains specific content.
func (testCtx *TestContext) theFileShouldContain(filename, expectedContent string) error {
	fullPath := testCtx.substituteCommandVariables(filename)
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(testCtx.WorkingDir, fullPath)
	}

	content, err := os.ReadFile(fullPath) //nolint:gosec // G304: Test file reading with controlled path
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", fullPath, err)
	}

	if !strings.Contains(string(content), expectedContent) {
		return fmt.Errorf("file %s does not contain '%s'\nActual content: %s",
			filename, expectedContent, string(content))
	}
	return nil
}

// theResultsFileShouldContainValidJSON verifies the last --output file holds JSON.
func (testCtx *TestContext) theResultsFileShouldContainValidJSON() error {
	if testCtx.LastOutputFile == "" {
		return errors.New("no output file specified")
	}

	path := testCtx.LastOutputFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(testCtx.WorkingDir, path)
	}

	content, err := os.ReadFile(path) //nolint:gosec // G304: Test file reading with controlled path
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var js json.RawMessage
	if err := json.Unmarshal(content, &js); err != nil {
		return fmt.Errorf("file does not contain valid JSON: %w", err)
	}
	return nil
}

// theEnvironmentVariableIsSetTo sets an environment variable.
func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.AddEnvVar(name, testCtx.substituteCommandVariables(value))
	return nil
}

// theOutputShouldContainUsageInformation verifies output contains usage information.
func (testCtx *TestContext) theOutputShouldContainUsageInformation() error {
	usageIndicators := []string{"Usage:", "usage:", "help", "Help"}
	for _, indicator := range usageIndicators {
		if strings.Contains(testCtx.LastOutput, indicator) {
			return nil
		}
	}
	return fmt.Errorf("output does not contain usage information: %s", testCtx.LastOutput)
}

// theOutputShouldListAvailableSubcommands verifies available subcommands are listed.
func (testCtx *TestContext) theOutputShouldListAvailableSubcommands() error {
	subcommands := []string{"classify", "batch", "serve", "train", "languages"}
	for _, cmd := range subcommands {
		if !strings.Contains(testCtx.LastOutput, cmd) {
			return fmt.Errorf("subcommand not listed: %s", cmd)
		}
	}
	return nil
}

// timingInformationShouldBeDisplayed verifies timing info is shown.
func (testCtx *TestContext) timingInformationShouldBeDisplayed() error {
	timingIndicators := []string{"duration", "Duration", "ms", "seconds", "duration_ms"}
	for _, indicator := range timingIndicators {
		if strings.Contains(testCtx.LastOutput, indicator) {
			return nil
		}
	}
	return fmt.Errorf("output does not contain timing information: %s", testCtx.LastOutput)
}

// registerSetupSteps registers fixture creation steps.
func (testCtx *TestContext) registerSetupSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a "([^"]*)" source file exists$`, testCtx.aSourceFileExists)
	sc.Step(`^a directory of source files exists$`, testCtx.aDirectoryOfSourceFilesExists)
	sc.Step(`^a training corpus exists$`, testCtx.aTrainingCorpusExists)
	sc.Step(`^a trained model exists$`, testCtx.aTrainedModelExists)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
}

// registerCommandSteps registers command execution and result verification steps.
func (testCtx *TestContext) registerCommandSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
}

// registerOutputSteps registers output verification steps.
func (testCtx *TestContext) registerOutputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the output should be valid CSV$`, testCtx.theOutputShouldBeValidCSV)
	sc.Step(`^the CSV should contain proper headers$`, testCtx.theCSVShouldContainProperHeaders)
	sc.Step(`^the JSON should contain "([^"]*)"$`, testCtx.theJSONShouldContain)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theJSONFieldShouldBe)
	sc.Step(`^timing information should be displayed$`, testCtx.timingInformationShouldBeDisplayed)
	sc.Step(`^the output should contain usage information$`, testCtx.theOutputShouldContainUsageInformation)
	sc.Step(`^the output should list available subcommands$`, testCtx.theOutputShouldListAvailableSubcommands)
}

// registerFileSteps registers file verification steps.
func (testCtx *TestContext) registerFileSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
	sc.Step(`^the results file should contain valid JSON$`, testCtx.theResultsFileShouldContainValidJSON)
}

// RegisterCommonSteps registers all common step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	testCtx.registerSetupSteps(sc)
	testCtx.registerCommandSteps(sc)
	testCtx.registerOutputSteps(sc)
	testCtx.registerFileSteps(sc)
}
