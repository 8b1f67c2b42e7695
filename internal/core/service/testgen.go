package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

type Framework string

const (
	FrameworkMocktail   Framework = "mocktail"
	FrameworkPlaywright Framework = "playwright"
	FrameworkVitest     Framework = "vitest"
)

type TestType string

const (
	TestTypeUnit        TestType = "unit"
	TestTypeIntegration TestType = "integration"
	TestTypeE2E         TestType = "e2e"
)

func ParseFramework(s string) (Framework, error) {
	switch f := Framework(strings.ToLower(s)); f {
	case FrameworkMocktail, FrameworkPlaywright, FrameworkVitest:
		return f, nil
	}
	return "", apperrors.NewUserFacing(apperrors.CodeUsage,
		fmt.Sprintf("unsupported framework %q", s), "Use one of: mocktail, playwright, vitest.")
}

func ParseTestType(s string) (TestType, error) {
	if s == "" {
		return TestTypeUnit, nil
	}
	switch t := TestType(strings.ToLower(s)); t {
	case TestTypeUnit, TestTypeIntegration, TestTypeE2E:
		return t, nil
	}
	return "", apperrors.NewUserFacing(apperrors.CodeUsage,
		fmt.Sprintf("unsupported test type %q", s), "Use one of: unit, integration, e2e.")
}

var testTemplates = map[Framework]string{
	FrameworkMocktail: `import 'package:flutter_test/flutter_test.dart';
import 'package:mocktail/mocktail.dart';

// Import the classes under test here.

void main() {
  group('{{ENTITY_NAME}} Tests', () {
    {{TEST_CASES}}
  });
}`,
	FrameworkPlaywright: `import { test, expect } from '@playwright/test';

test.describe('{{ENTITY_NAME}}', () => {
  {{TEST_CASES}}
});`,
	FrameworkVitest: `import { describe, it, expect, vi } from 'vitest';

describe('{{ENTITY_NAME}}', () => {
  {{TEST_CASES}}
});`,
}

var frameworkExamples = map[Framework]string{
	FrameworkMocktail: `Example format for Mocktail:
test('should do X when Y', () {
  // Arrange
  final mock = MockDependency();
  // Act
  // Assert
});`,
	FrameworkPlaywright: `Example format for Playwright:
test('should display X when Y', async ({ page }) => {
  await page.goto('/path');
  await expect(page.getByRole('button')).toBeVisible();
});`,
	FrameworkVitest: `Example format for Vitest:
it('should return X when Y', () => {
  // Arrange
  const result = functionUnderTest();
  // Assert
  expect(result).toBe(expectedValue);
});`,
}

const testPromptTemplate = `You are a test code generator. Generate test cases for the following specification.

**SPECIFICATION:**
Entity Type: %s
Entity Name: %s
Requirements:
%s

**FRAMEWORK:** %s
**TEST TYPE:** %s

**TASK:**
Generate test cases that validate all requirements in the specification. Return ONLY the test case code blocks (without the describe/group wrapper).

%s

Focus on:
1. Cover all spec requirements
2. Follow best practices for %s
3. Include setup/teardown if needed
4. Add meaningful assertions

Return ONLY the test case code, no explanation.`

type GeneratedTest struct {
	FileName  string
	Code      string
	Framework Framework
	SpecID    string
}

type TestGenerator struct {
	modelCaller
	specs  ports.SpecificationStore
	logger ports.Logger
}

func NewTestGenerator(specs ports.SpecificationStore, model ports.Model, limiter ports.RateLimiter, meter ports.UsageMeter, logger ports.Logger, opts AnalyzerOptions) *TestGenerator {
	return &TestGenerator{
		modelCaller: newModelCaller(model, limiter, meter, opts),
		specs:       specs,
		logger:      logger,
	}
}

func (g *TestGenerator) Generate(ctx context.Context, specID string, framework Framework, testType TestType) (GeneratedTest, error) {
	tmpl, ok := testTemplates[framework]
	if !ok {
		return GeneratedTest{}, apperrors.New(apperrors.CodeUsage, fmt.Sprintf("no template for framework %q", framework))
	}

	spec, err := g.specs.GetSpecification(ctx, specID)
	if err != nil {
		return GeneratedTest{}, err
	}

	prompt := fmt.Sprintf(testPromptTemplate, spec.EntityType, spec.EntityName, spec.Content,
		framework, testType, frameworkExamples[framework], framework)

	cases, err := g.generate(ctx, spec.TenantID, prompt)
	if err != nil {
		return GeneratedTest{}, err
	}
	g.logger.Debugf(ctx, "Generated %s %s tests for %s", framework, testType, spec.EntityName)

	code := strings.Replace(tmpl, "{{ENTITY_NAME}}", spec.EntityName, 1)
	code = strings.Replace(code, "{{TEST_CASES}}", stripFences(cases), 1)

	return GeneratedTest{
		FileName:  TestFileName(spec.EntityName, framework),
		Code:      code,
		Framework: framework,
		SpecID:    spec.ID.String(),
	}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// TestFileName follows each framework's naming convention.
func TestFileName(entityName string, framework Framework) string {
	lower := strings.ToLower(entityName)
	switch framework {
	case FrameworkMocktail:
		return whitespaceRun.ReplaceAllString(lower, "_") + "_test.dart"
	case FrameworkPlaywright:
		return whitespaceRun.ReplaceAllString(lower, "-") + ".spec.ts"
	default:
		return whitespaceRun.ReplaceAllString(lower, "-") + ".test.ts"
	}
}

// stripFences removes a single surrounding markdown code fence, if any.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		return s
	}
	t = strings.TrimSuffix(strings.TrimRight(t, " \n\t"), "```")
	return strings.TrimRight(t, " \n\t")
}
