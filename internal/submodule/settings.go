package submodule

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	formatconfig "github.com/go-git/go-git/v5/plumbing/format/config"
)

const (
	gitModulesFileNameConstant                   = ".gitmodules"
	submoduleSectionNameConstant                 = "submodule"
	pathOptionKeyConstant                        = "path"
	urlOptionKeyConstant                         = "url"
	branchOptionKeyConstant                      = "branch"
	fetchRecurseOptionKeyConstant                = "fetchRecurseSubmodules"
	ignoreOptionKeyConstant                      = "ignore"
	updateOptionKeyConstant                      = "update"
	gitModulesReadErrorTemplateConstant          = "failed to read %s: %w"
	gitModulesDecodeErrorTemplateConstant        = "failed to parse %s: %w"
	ruleOptionErrorTemplateConstant              = "submodule.%s.%s: %w"
	moduleDeclarationMissingPathTemplateConstant = "submodule %q declares no path"
)

// moduleDeclaration is one [submodule "name"] block of .gitmodules.
type moduleDeclaration struct {
	Name   string
	Path   string
	URL    string
	Branch string
}

// moduleSettings merges the .gitmodules declaration with the repository configuration.
type moduleSettings struct {
	declaration      moduleDeclaration
	initialized      bool
	fetchRecurseRule RecurseRule
	ignoreRule       IgnoreRule
	updateRule       UpdateRule
}

func defaultModuleSettings() moduleSettings {
	return moduleSettings{
		fetchRecurseRule: RecurseNo,
		ignoreRule:       IgnoreNone,
		updateRule:       UpdateCheckout,
	}
}

func readGitModules(filesystem billy.Filesystem) (*formatconfig.Config, error) {
	content, readError := util.ReadFile(filesystem, gitModulesFileNameConstant)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return formatconfig.New(), nil
		}
		return nil, fmt.Errorf(gitModulesReadErrorTemplateConstant, gitModulesFileNameConstant, readError)
	}
	return decodeGitModules(content)
}

func decodeGitModules(content []byte) (*formatconfig.Config, error) {
	decoded := formatconfig.New()
	if decodeError := formatconfig.NewDecoder(bytes.NewReader(content)).Decode(decoded); decodeError != nil {
		return nil, fmt.Errorf(gitModulesDecodeErrorTemplateConstant, gitModulesFileNameConstant, decodeError)
	}
	return decoded, nil
}

func listModuleDeclarations(modules *formatconfig.Config) []moduleDeclaration {
	if modules == nil || !modules.HasSection(submoduleSectionNameConstant) {
		return nil
	}
	section := modules.Section(submoduleSectionNameConstant)
	declarations := make([]moduleDeclaration, 0, len(section.Subsections))
	for _, subsection := range section.Subsections {
		declarations = append(declarations, declarationFromSubsection(subsection))
	}
	sort.Slice(declarations, func(left int, right int) bool {
		return declarations[left].Name < declarations[right].Name
	})
	return declarations
}

func findModuleDeclaration(modules *formatconfig.Config, name string) (moduleDeclaration, bool) {
	subsection, found := lookupSubsection(modules, name)
	if !found {
		return moduleDeclaration{}, false
	}
	return declarationFromSubsection(subsection), true
}

func declarationFromSubsection(subsection *formatconfig.Subsection) moduleDeclaration {
	return moduleDeclaration{
		Name:   subsection.Name,
		Path:   subsection.Option(pathOptionKeyConstant),
		URL:    subsection.Option(urlOptionKeyConstant),
		Branch: subsection.Option(branchOptionKeyConstant),
	}
}

func lookupSubsection(configuration *formatconfig.Config, name string) (*formatconfig.Subsection, bool) {
	if configuration == nil || !configuration.HasSection(submoduleSectionNameConstant) {
		return nil, false
	}
	section := configuration.Section(submoduleSectionNameConstant)
	if !section.HasSubsection(name) {
		return nil, false
	}
	return section.Subsection(name), true
}

// resolveModuleSettings reads the rules of a declared submodule; repository configuration wins over .gitmodules.
func resolveModuleSettings(modules *formatconfig.Config, repositoryConfiguration *formatconfig.Config, name string) (moduleSettings, error) {
	settings := defaultModuleSettings()

	declaration, declared := findModuleDeclaration(modules, name)
	if !declared {
		return settings, ErrSubmoduleNotFound
	}
	if len(declaration.Path) == 0 {
		return settings, fmt.Errorf(moduleDeclarationMissingPathTemplateConstant, name)
	}
	settings.declaration = declaration

	configured, initialized := lookupSubsection(repositoryConfiguration, name)
	settings.initialized = initialized

	lookupOption := func(key string) (string, bool) {
		if initialized && configured.Options.Has(key) {
			return configured.Option(key), true
		}
		declaredSubsection, _ := lookupSubsection(modules, name)
		if declaredSubsection.Options.Has(key) {
			return declaredSubsection.Option(key), true
		}
		return "", false
	}

	if value, present := lookupOption(fetchRecurseOptionKeyConstant); present {
		rule, parseError := ParseRecurseRule(value)
		if parseError != nil {
			return defaultModuleSettings(), fmt.Errorf(ruleOptionErrorTemplateConstant, name, fetchRecurseOptionKeyConstant, parseError)
		}
		settings.fetchRecurseRule = rule
	}

	if value, present := lookupOption(ignoreOptionKeyConstant); present {
		rule, parseError := ParseIgnoreRule(value)
		if parseError != nil {
			return defaultModuleSettings(), fmt.Errorf(ruleOptionErrorTemplateConstant, name, ignoreOptionKeyConstant, parseError)
		}
		if rule != IgnoreUnspecified {
			settings.ignoreRule = rule
		}
	}

	if value, present := lookupOption(updateOptionKeyConstant); present {
		rule, parseError := ParseUpdateRule(value)
		if parseError != nil {
			return defaultModuleSettings(), fmt.Errorf(ruleOptionErrorTemplateConstant, name, updateOptionKeyConstant, parseError)
		}
		if rule != UpdateDefault {
			settings.updateRule = rule
		}
	}

	return settings, nil
}
