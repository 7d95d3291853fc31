package catalog

import "github.com/giygas/empirical-rx/catalog/entities"

// Defaults returns the built-in catalog used when nothing usable is persisted
func Defaults() *Catalog {
	return FromEntries(defaultEntries()...)
}

func defaultEntries() []entities.Entry {
	return []entities.Entry{
		{Name: "common cold", Record: entities.ClinicalRecord{
			FirstLine: "Symptomatic treatment; no antibiotics.",
			Management: []string{
				"Paracetamol 500 mg TID (e.g., Calpol, Crocin)",
				"Pseudoephedrine or phenylephrine (e.g., Sinarest, Otrivin Cold)",
				"Chlorpheniramine maleate (e.g., Cetrizine Plus, CPM)",
				"Rest, hydration, steam inhalation",
			},
			Symptoms: []string{"Runny or blocked nose", "Sneezing", "Sore throat", "Mild fever", "Cough"},
			Labs:     []string{"Not routinely required unless secondary infection suspected"},
		}},
		{Name: "gastritis", Record: entities.ClinicalRecord{
			FirstLine: "Omeprazole 20 mg once daily before meals (e.g., Omez, Ocid).",
			Management: []string{
				"Antacids for immediate relief (e.g., Gelusil, Digene)",
				"Triple therapy (PPI, amoxicillin, clarithromycin) if H. pylori present",
			},
			Symptoms: []string{"Epigastric pain", "Nausea", "Bloating", "Belching", "Early satiety"},
			Labs:     []string{"H. pylori antigen test (stool or breath test)", "CBC to rule out anemia"},
		}},
		{Name: "diarrhea", Record: entities.ClinicalRecord{
			FirstLine: "ORS with low-osmolarity + Zinc (e.g., Zinconia, Z&D)",
			Management: []string{
				"Probiotics: Lactobacillus GG or Saccharomyces boulardii (e.g., Vizylac, Econorm)",
				"Antibiotics only if bacterial cause suspected (e.g., Norflox, Metrogyl)",
			},
			Symptoms: []string{"Loose, watery stools", "Abdominal cramps", "Urgency", "Fatigue", "Possible fever"},
			Labs:     []string{"Stool routine and culture", "Electrolytes (Na, K, Cl)", "CRP if febrile"},
		}},
		{Name: "asthma", Record: entities.ClinicalRecord{
			FirstLine: "Beclomethasone 100–200 mcg BID (e.g., Beclate Inhaler)",
			Management: []string{
				"Add formoterol/budesonide if moderate-severe (e.g., Foracort, Symbicort)",
				"Avoid triggers, educate patient",
			},
			Symptoms: []string{"Wheezing", "Cough (often nocturnal)", "Shortness of breath", "Chest tightness"},
			Labs:     []string{"PEFR monitoring", "Spirometry (FEV1/FVC)", "Allergy testing if indicated"},
		}},
		{Name: "copd", Record: entities.ClinicalRecord{
			FirstLine: "Tiotropium (e.g., Tiova) or Salmeterol (e.g., Seroflo)",
			Management: []string{
				"ICS for frequent exacerbations (e.g., Budecort, Pulmicort)",
				"Pulmonary rehab, stop smoking",
			},
			Symptoms: []string{"Chronic productive cough", "Dyspnea on exertion", "Fatigue", "Wheezing"},
			Labs:     []string{"Spirometry (post-bronchodilator FEV1/FVC < 0.7)", "Chest X-ray", "ABG if severe"},
		}},
		{Name: "hypertension", Record: entities.ClinicalRecord{
			FirstLine: "Lifestyle changes + Amlodipine 5 mg once daily (e.g., Amlong, Stamlo).",
			Management: []string{
				"Reduce salt intake, regular exercise",
				"Monitor BP regularly",
				"Consider ARBs or ACE inhibitors (e.g., Telmisartan, Enalapril)",
			},
			Symptoms: []string{"Often asymptomatic", "Headache", "Dizziness", "Visual disturbances"},
			Labs:     []string{"Blood pressure monitoring", "Lipid profile", "Serum creatinine and electrolytes"},
		}},
		{Name: "diabetes", Record: entities.ClinicalRecord{
			FirstLine: "Metformin 500 mg BID (e.g., Glycomet, Gluformin).",
			Management: []string{
				"Diet and lifestyle modifications",
				"Monitor blood glucose",
				"Add sulfonylureas or insulin if uncontrolled",
			},
			Symptoms: []string{"Increased thirst", "Frequent urination", "Fatigue", "Blurred vision"},
			Labs:     []string{"Fasting and postprandial blood sugar", "HbA1c", "Urine routine"},
		}},
		{Name: "uti", Record: entities.ClinicalRecord{
			FirstLine:  "Nitrofurantoin 100 mg BID for 5 days (e.g., Niftas, Martifur).",
			Management: []string{"Hydration", "Urine alkalizers", "Ciprofloxacin if resistance suspected"},
			Symptoms:   []string{"Burning urination", "Frequency", "Urgency", "Lower abdominal pain"},
			Labs:       []string{"Urine routine and microscopy", "Urine culture"},
		}},
		{Name: "heart attack (mi)", Record: entities.ClinicalRecord{
			FirstLine: "Aspirin 325 mg stat + Clopidogrel + Atorvastatin (e.g., Ecosprin-AV).",
			Management: []string{
				"Oxygen, Morphine, Nitrates",
				"Beta-blockers, ACE inhibitors",
				"Immediate PCI or thrombolysis",
			},
			Symptoms: []string{"Severe chest pain", "Sweating", "Nausea", "Breathlessness"},
			Labs:     []string{"ECG", "Cardiac enzymes (Trop-I, CK-MB)", "Echocardiogram"},
		}},
		{Name: "anemia", Record: entities.ClinicalRecord{
			FirstLine: "Ferrous sulfate 325 mg once to thrice daily (e.g., Orofer, Fefol).",
			Management: []string{
				"Iron-rich diet (green leafy vegetables, red meat, fortified cereals)",
				"Vitamin C to enhance absorption",
				"Treat underlying cause (e.g., worm infestation, menorrhagia)",
			},
			Symptoms: []string{
				"Fatigue",
				"Pallor",
				"Dizziness",
				"Breathlessness on exertion",
				"Pica (craving non-food substances)",
			},
			Labs: []string{
				"Hemoglobin",
				"Serum ferritin",
				"Peripheral smear",
				"TIBC (Total Iron Binding Capacity)",
			},
		}},
		{Name: "migraine", Record: entities.ClinicalRecord{
			FirstLine: "Paracetamol or NSAIDs (e.g., Naproxen, Ibuprofen) + antiemetic (e.g., Domperidone).",
			Management: []string{
				"Triptans (e.g., Sumatriptan) for acute attacks",
				"Prophylaxis: Propranolol or Amitriptyline if frequent attacks",
				"Avoid known triggers (e.g., cheese, chocolate, stress)",
			},
			Symptoms: []string{
				"Unilateral pulsating headache",
				"Nausea or vomiting",
				"Photophobia / phonophobia",
				"Aura (visual, sensory, or motor)",
			},
			Labs: []string{
				"Clinical diagnosis",
				"MRI brain if red flag symptoms (e.g., sudden onset, focal neuro deficit)",
			},
		}},
		{Name: "tuberculosis", Record: entities.ClinicalRecord{
			FirstLine: "Category I DOTS: 2 months HRZE, followed by 4 months HR (e.g., AKT-4 kit).",
			Management: []string{
				"Adherence to RNTCP or WHO DOTS protocol",
				"Nutritional support",
				"Contact tracing and screening",
			},
			Symptoms: []string{
				"Chronic cough (>2 weeks)",
				"Hemoptysis",
				"Fever (especially evening rise)",
				"Weight loss, night sweats",
			},
			Labs: []string{"Sputum AFB", "CB-NAAT (GeneXpert)", "Chest X-ray", "ESR, Mantoux test"},
		}},
		{Name: "hypothyroidism", Record: entities.ClinicalRecord{
			FirstLine: "Levothyroxine 25–100 mcg daily based on TSH (e.g., Eltroxin, Thyronorm).",
			Management: []string{
				"Regular TSH monitoring every 6–12 weeks initially",
				"Adjust dose as per clinical response",
				"Address associated dyslipidemia or weight gain",
			},
			Symptoms: []string{
				"Fatigue",
				"Weight gain",
				"Cold intolerance",
				"Constipation",
				"Depression, slow cognition",
			},
			Labs: []string{"TSH", "Free T4", "Anti-TPO antibodies (if autoimmune suspected)"},
		}},
		{Name: "depression", Record: entities.ClinicalRecord{
			FirstLine: "SSRI such as Escitalopram 10 mg daily (e.g., Nexito, Cipralex).",
			Management: []string{
				"Cognitive Behavioral Therapy (CBT)",
				"Lifestyle changes: exercise, sleep hygiene",
				"Psych referral if no improvement in 6 weeks",
			},
			Symptoms: []string{
				"Persistent sadness or irritability",
				"Anhedonia (loss of interest)",
				"Fatigue",
				"Suicidal thoughts",
			},
			Labs: []string{
				"PHQ-9 questionnaire",
				"Thyroid panel (rule out hypothyroidism)",
				"Vitamin B12, D levels (if fatigue prominent)",
			},
		}},
	}
}
