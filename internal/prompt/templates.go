// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import "text/template"

// RoughOutlineTmpl asks for a section-level outline of one reference batch.
var RoughOutlineTmpl = template.Must(template.New("rough-outline").Parse(`You want to write an overall and comprehensive academic survey about "{{.Topic}}".
You are provided with a list of papers related to the topic below:
---
{{.PaperList}}
---
You need to draft an outline based on the given papers.
The outline should contain a title and several sections.
Each section is followed by a brief sentence describing what to write in that section.
The outline is supposed to be comprehensive and contain {{.SectionNum}} sections.

Return in the format:
<format>
Title: [TITLE OF THE SURVEY]
Section 1: [NAME OF SECTION 1]
Description 1: [DESCRIPTION OF SECTION 1]

Section 2: [NAME OF SECTION 2]
Description 2: [DESCRIPTION OF SECTION 2]

...

Section K: [NAME OF SECTION K]
Description K: [DESCRIPTION OF SECTION K]
</format>
The outline:
`))

// MergeOutlinesTmpl asks for one outline combining several candidates.
var MergeOutlinesTmpl = template.Must(template.New("merge-outlines").Parse(`You are an expert in artificial intelligence who wants to write an overall survey about {{.Topic}}.
You are provided with a list of outlines as candidates below:
---
{{.OutlineList}}
---
Each outline contains a title and several sections.
Each section is followed by a brief sentence describing what to write in that section.

You need to generate a final outline based on these provided outlines.
Return in the format:
<format>
Title: [TITLE OF THE SURVEY]
Section 1: [NAME OF SECTION 1]
Description 1: [DESCRIPTION OF SECTION 1]

Section 2: [NAME OF SECTION 2]
Description 2: [DESCRIPTION OF SECTION 2]

...

Section K: [NAME OF SECTION K]
Description K: [DESCRIPTION OF SECTION K]
</format>
Only return the final outline without any other information:
`))

// SubsectionOutlineTmpl asks for the subsections of one section.
var SubsectionOutlineTmpl = template.Must(template.New("subsection-outline").Parse(`You are an expert in artificial intelligence who wants to write an overall survey about {{.Topic}}.
You have created an overall outline below:
---
{{.OverallOutline}}
---
The outline contains a title and several sections.
Each section is followed by a brief sentence describing what to write in that section.

<instruction>
You need to enrich the section {{.SectionName}}.
The description of {{.SectionName}}: {{.SectionDescription}}
You need to generate the framework containing several subsections based on the overall outline.
Each subsection is followed by a brief sentence describing what to write in that subsection.
These papers provided for reference:
---
{{.PaperList}}
---
Return the outline in the format:
<format>
Subsection 1: [NAME OF SUBSECTION 1]
Description 1: [DESCRIPTION OF SUBSECTION 1]

Subsection 2: [NAME OF SUBSECTION 2]
Description 2: [DESCRIPTION OF SUBSECTION 2]

...

Subsection K: [NAME OF SUBSECTION K]
Description K: [DESCRIPTION OF SUBSECTION K]
</format>
</instruction>
Only return the outline without any other information:
`))

// EditOutlineTmpl asks for a cleaned, deduplicated markdown outline.
var EditOutlineTmpl = template.Must(template.New("edit-outline").Parse(`You are an expert in artificial intelligence who wants to write an overall survey.
You have created a draft outline below:
---
{{.OverallOutline}}
---
The outline contains a title, several sections, and several subsections under each section.
Each section and subsection is followed by a line starting with "Description:" that explains what to write.
<instruction>
Some subsections may be repeated or largely overlap.
You need to modify the outline to make it both comprehensive and logically coherent with no repeated subsections.
Repeated subsections among sections are not allowed.
Keep every heading immediately followed by its "Description:" line.
Return the final outline in the format:
<format>
# [TITLE OF SURVEY]

## [NAME OF SECTION 1]
Description: [DESCRIPTION OF SECTION 1]

### [NAME OF SUBSECTION 1]
Description: [DESCRIPTION OF SUBSECTION 1]

### [NAME OF SUBSECTION 2]
Description: [DESCRIPTION OF SUBSECTION 2]

...

## [NAME OF SECTION K]
Description: [DESCRIPTION OF SECTION K]
...
</format>
</instruction>
Only return the final outline without any other information:
`))

// WriteSubsectionTmpl asks for the body of one subsection with citations.
var WriteSubsectionTmpl = template.Must(template.New("write-subsection").Parse(`You are an expert in artificial intelligence who wants to write an overall and comprehensive survey about {{.Topic}}.
You have created an overall outline below:
---
{{.OverallOutline}}
---
Below are a list of papers for reference:
---
{{.PaperList}}
---

<instruction>
Now you need to write the content for the subsection:
"{{.SubsectionName}}" under the section: "{{.SectionName}}"
The details of what to write in this subsection are in this description:
---
{{.Description}}
---

Here is the requirement you must follow:
1. The content you write must be more than {{.WordNum}} words.
2. When writing sentences that are based on specific papers above, cite the "paper_title" in a '[]' format to support your content. An example of citation: 'the emergence of large language models (LLMs) [Language models are few-shot learners; Language models are unsupervised multitask learners; PaLM: Scaling language modeling with pathways]'
   Note that the "paper_title" is not allowed to appear without a '[]' format. Once you mention the 'paper_title', it must be included in '[]'. Papers not existing above are not allowed to cite!!!
   Remember that you can only cite the paper provided above and only cite the "paper_title"s!!!
3. Only when the main part of the paper supports your claims, cite it.
4. Use about {{.CitationNum}} citations.

Here's a concise guideline for when to cite papers in a survey:
---
1. Summarizing Research: Cite sources when summarizing the existing literature.
2. Using Specific Concepts or Data: Provide citations when discussing specific theories, models, or data.
3. Comparing Findings: Cite relevant studies when comparing or contrasting different findings.
4. Highlighting Research Gaps: Cite previous research when pointing out gaps your survey addresses.
5. Using Established Methods: Cite the creators of methodologies you employ in your survey.
6. Supporting Arguments: Cite sources that back up your conclusions and arguments.
7. Suggesting Future Research: Reference studies related to proposed future research directions.
---

</instruction>
Return the content of subsection "{{.SubsectionName}}" in the format:
<format>
[CONTENT OF SUBSECTION]
</format>
Only return the content of more than {{.WordNum}} words you write for the subsection {{.SubsectionName}} without any other information:
`))

// CheckCitationTmpl asks the model to repair citations of one draft.
var CheckCitationTmpl = template.Must(template.New("check-citation").Parse(`You are an expert in artificial intelligence who wants to write an overall and comprehensive survey about {{.Topic}}.
Below are a list of papers for references:
---
{{.PaperList}}
---
You have written a subsection below:
---
{{.Subsection}}
---
<instruction>
The sentences that are based on specific papers above are followed with the citation of "paper_title" in "[]".
For example 'the emergence of large language models (LLMs) [Language models are few-shot learners; PaLM: Scaling language modeling with pathways]'

Here's a concise guideline for when to cite papers in a survey:
---
1. Summarizing Research: Cite sources when summarizing the existing literature.
2. Using Specific Concepts or Data: Provide citations when discussing specific theories, models, or data.
3. Comparing Findings: Cite relevant studies when comparing or contrasting different findings.
4. Highlighting Research Gaps: Cite previous research when pointing out gaps your survey addresses.
5. Using Established Methods: Cite the creators of methodologies you employ in your survey.
6. Supporting Arguments: Cite sources that back up your conclusions and arguments.
7. Suggesting Future Research: Reference studies related to proposed future research directions.
---

Now you need to check whether the citations of "paper_title" in this subsection are correct.
A correct citation means that the content of the corresponding paper supports the sentence you write.
Once the citation cannot support the sentence you write, correct the paper_title in '[]' or just remove it.

Remember that you can only cite the 'paper_title' provided above!!!
Any other information like authors is not allowed to cite!!!
Do not change any other things except the citations!!!
</instruction>
Only return the subsection with correct citations:
`))

// CoherenceTmpl asks for one subsection rewritten against its neighbors.
var CoherenceTmpl = template.Must(template.New("coherence").Parse(`You are an expert in artificial intelligence who wants to write an overall and comprehensive survey about {{.Topic}}.
You have created an overall outline below:
---
{{.OverallOutline}}
---
<instruction>
Now you need to help refine one of the subsections to improve the coherence of your survey.
You are provided with the content of the subsection along with the previous subsection and the following subsection.

Previous Subsection:
---
{{.Previous}}
---

Subsection to Refine:
---
{{.Subsection}}
---

Following Subsection:
---
{{.Following}}
---

If the content of Previous Subsection is empty, the subsection to refine is the first subsection.
If the content of Following Subsection is empty, the subsection to refine is the last subsection.

Now edit the middle subsection to enhance coherence, remove redundancies, and ensure that it connects more fluidly with the previous and following subsections.
Keep the essence and core information of the subsection intact, including its citations in '[]'.
</instruction>

Only return the refined subsection without any other information:
`))
