package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeMood() string {
	return `Computes the MOOD object-oriented design metrics over a set of compiled JVM classes.

USE WHEN:
- Assessing encapsulation and inheritance design of a compiled code base
- Comparing design quality between builds or modules
- Checking how much behavior subclasses actually override

INTERPRETING RESULTS:
- MHF/AHF (hiding factors): share of declared methods/attributes that are not public; higher means stronger encapsulation
- MIF/AIF (inheritance factors): share of available members that are inherited unchanged
- POF (polymorphism factor): overrides actually performed over possible override sites
- COF (coupling factor): class pairs where an attribute type references another class, over n*(n-1)
- null means the ratio is undefined (empty denominator), see summary.ratios for the raw sums
- Attributes are synthesized from get/set accessor methods, not read from fields
- Members compare by name, access and descriptor, so an override that changes visibility is not counted as an override

METRICS RETURNED:
- metrics: mhf, ahf, mif, aif, pof, cof
- summary: total_classes and numerator/denominator of every ratio
- classes (per_class=true): declared, hidden, new, overridden and inherited counts, descendants, coupled classes`
}

func describeDumpIR() string {
	return `Prints the structural IR of a set of compiled classes: one header per class with its base class, then synthesized attributes and declared methods with access and descriptor.

USE WHEN:
- Checking which members mood sees for a class before interpreting metrics
- Verifying accessor synthesis (getX/setX to attribute x)

INTERPRETING RESULTS:
- Constructors, static members and package-private members are not listed
- Descriptors use JVM notation: I=int, J=long, Z=boolean, V=void, Lpkg/Name;=object, [=array

METRICS RETURNED:
- Plain text tree, no metrics`
}

func describeListClasses() string {
	return `Lists the classes discoverable on a classpath after exclusion patterns are applied.

USE WHEN:
- Choosing which classes to pass to analyze_mood or dump_ir

INTERPRETING RESULTS:
- Names are internal (slash-separated); either form is accepted by the other tools

METRICS RETURNED:
- classes: names in classpath order, count`
}
